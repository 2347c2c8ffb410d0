// Package myrpc exposes typed procedures over plain HTTP.
//
// Queries are served on GET with their input in the query string, mutations on POST with a
// JSON body. Every input validates itself; every output is wrapped in a Result.
package myrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/form/v4"

	"github.com/MarcGrol/marketplace/lib/myerrors"
	"github.com/MarcGrol/marketplace/lib/myhttp"
)

const PathPrefix = "/api/rpc/"

var decoder = form.NewDecoder()

type Input interface {
	Validate() error
}

type Result struct {
	Result any `json:"result"`
}

func Path(procedure string) string {
	return PathPrefix + procedure
}

// Decode fills the input from the request and validates it
func Decode(r *http.Request, input Input) error {
	if r.Method == http.MethodGet {
		err := r.ParseForm()
		if err != nil {
			return myerrors.NewInvalidInputError(fmt.Errorf("error parsing query: %s", err))
		}
		err = decoder.Decode(input, r.Form)
		if err != nil {
			return myerrors.NewInvalidInputError(fmt.Errorf("error decoding query: %s", err))
		}
	} else {
		err := json.NewDecoder(r.Body).Decode(input)
		if err != nil {
			return myerrors.NewInvalidInputError(fmt.Errorf("error decoding body: %s", err))
		}
	}

	err := input.Validate()
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	return nil
}

// DecodeValues is used for non-rpc pages that carry typed query flags
func DecodeValues(values map[string][]string, target any) error {
	err := decoder.Decode(target, values)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("error decoding query: %s", err))
	}
	return nil
}

func Write(c context.Context, w http.ResponseWriter, writer myhttp.ResponseWriter, output any) {
	writer.Write(c, w, http.StatusOK, Result{Result: output})
}

// Violations collects input problems so a caller sees all of them at once
type Violations []string

func (v *Violations) Check(ok bool, format string, args ...any) {
	if !ok {
		*v = append(*v, fmt.Sprintf(format, args...))
	}
}

func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return fmt.Errorf("invalid input: %s", strings.Join(v, "; "))
}
