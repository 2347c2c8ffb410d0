package warmup

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"slices"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/marketplace/lib/mycontext"
	"github.com/MarcGrol/marketplace/lib/myerrors"
	"github.com/MarcGrol/marketplace/lib/myhttp"
	"github.com/MarcGrol/marketplace/lib/mylog"
)

// Check primes one dependency, e.g. opens the catalog database
type Check func(c context.Context) error

type webService struct {
	logger mylog.Logger
	checks map[string]Check
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewService(checks map[string]Check) *webService {
	return &webService{
		logger: mylog.New("warmup"),
		checks: checks,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")
}

func (s *webService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		for _, name := range slices.Sorted(maps.Keys(s.checks)) {
			err := s.checks[name](c)
			if err != nil {
				errorWriter.WriteError(c, w, 1, myerrors.NewInternalError(fmt.Errorf("warmup of %s failed: %s", name, err)))
				return
			}
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed warmup request",
		})
	}
}
