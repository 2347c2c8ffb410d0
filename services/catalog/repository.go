package catalog

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Repository interface {
	FindProductsByIDs(c context.Context, ids []string, excludeArchived bool) ([]Product, error)
	GetProduct(c context.Context, id string) (Product, bool, error)
	SearchProducts(c context.Context, filter ProductFilter) (Page[Product], error)
	GetTenantBySlug(c context.Context, slug string) (Tenant, bool, error)
	ListCategories(c context.Context) ([]Category, error)
	ListTags(c context.Context, page int, limit int) (Page[Tag], error)
}

type sqlRepository struct {
	db *sql.DB
}

// NewSQLRepository opens the catalog database and brings its schema up to date
func NewSQLRepository(c context.Context, dsn string) (*sqlRepository, func(), error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows a single writer; an in-memory database only exists on its own connection
	db.SetMaxOpenConns(1)

	err = db.PingContext(c)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	err = runMigrations(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return &sqlRepository{db: db}, func() {
		db.Close()
	}, nil
}

func runMigrations(db *sql.DB) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

const productColumns = `
	p.id, p.name, COALESCE(p.description, ''), p.price, COALESCE(p.image_url, ''), p.refund_policy,
	COALESCE(p.content, ''), p.is_archived, p.is_private, p.created_at, COALESCE(c.slug, ''),
	t.id, t.name, t.slug, COALESCE(t.image_url, ''), t.stripe_account_id, t.stripe_details_submitted`

const productJoins = `
	FROM products p
	JOIN tenants t ON t.id = p.tenant_id
	LEFT JOIN categories c ON c.id = p.category_id`

func (r *sqlRepository) FindProductsByIDs(c context.Context, ids []string, excludeArchived bool) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	query := `SELECT ` + productColumns + productJoins + ` WHERE p.id IN (` + placeholders(len(ids)) + `)`
	if excludeArchived {
		query += ` AND p.is_archived = 0`
	}
	query += ` ORDER BY p.created_at DESC`

	return r.queryProducts(c, query, toArgs(ids)...)
}

func (r *sqlRepository) GetProduct(c context.Context, id string) (Product, bool, error) {
	products, err := r.queryProducts(c, `SELECT `+productColumns+productJoins+` WHERE p.id = ?`, id)
	if err != nil {
		return Product{}, false, err
	}
	if len(products) == 0 {
		return Product{}, false, nil
	}
	return products[0], true, nil
}

func (r *sqlRepository) SearchProducts(c context.Context, filter ProductFilter) (Page[Product], error) {
	page, limit := NormalizePaging(filter.Page, filter.Limit)

	where := []string{"p.is_archived = 0"}
	args := []any{}

	if filter.TenantSlug != "" {
		where = append(where, "t.slug = ?")
		args = append(args, filter.TenantSlug)
	} else {
		// private products only show up in their own storefront
		where = append(where, "p.is_private = 0")
	}
	if filter.Category != "" {
		where = append(where, "(c.slug = ? OR c.parent_id IN (SELECT id FROM categories WHERE slug = ?))")
		args = append(args, filter.Category, filter.Category)
	}
	if filter.MinPrice != nil {
		where = append(where, "CAST(p.price AS REAL) >= ?")
		args = append(args, filter.MinPrice.InexactFloat64())
	}
	if filter.MaxPrice != nil {
		where = append(where, "CAST(p.price AS REAL) <= ?")
		args = append(args, filter.MaxPrice.InexactFloat64())
	}
	if len(filter.Tags) > 0 {
		where = append(where, `p.id IN (
			SELECT pt.product_id FROM product_tags pt JOIN tags tg ON tg.id = pt.tag_id
			WHERE tg.name IN (`+placeholders(len(filter.Tags))+`))`)
		args = append(args, toArgs(filter.Tags)...)
	}

	whereClause := ` WHERE ` + strings.Join(where, " AND ")

	total := 0
	err := r.db.QueryRowContext(c, `SELECT COUNT(*)`+productJoins+whereClause, args...).Scan(&total)
	if err != nil {
		return Page[Product]{}, fmt.Errorf("failed to count products: %w", err)
	}

	query := `SELECT ` + productColumns + productJoins + whereClause +
		` ORDER BY ` + orderBy(filter.Sort) + ` LIMIT ? OFFSET ?`
	products, err := r.queryProducts(c, query, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return Page[Product]{}, err
	}

	return NewPage(products, total, page, limit), nil
}

func orderBy(sort SortOrder) string {
	switch sort {
	case SortHotAndNew:
		return "p.created_at ASC, p.id"
	default:
		return "p.created_at DESC, p.id"
	}
}

func (r *sqlRepository) queryProducts(c context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.db.QueryContext(c, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p := Product{}
		price := ""
		createdAt := ""
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &price, &p.ImageURL, &p.RefundPolicy,
			&p.Content, &p.IsArchived, &p.IsPrivate, &createdAt, &p.Category,
			&p.Tenant.ID, &p.Tenant.Name, &p.Tenant.Slug, &p.Tenant.ImageURL, &p.Tenant.StripeAccountID, &p.Tenant.StripeDetailsSubmitted,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		p.Price = parsePrice(price)
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		products = append(products, p)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	rows.Close()

	err = r.attachTags(c, products)
	if err != nil {
		return nil, err
	}

	return products, nil
}

// parsePrice treats an unparsable price as zero so one bad record cannot break a total
func parsePrice(value string) decimal.Decimal {
	price, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero
	}
	return price
}

func (r *sqlRepository) attachTags(c context.Context, products []Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	rows, err := r.db.QueryContext(c, `
		SELECT pt.product_id, tg.name
		FROM product_tags pt JOIN tags tg ON tg.id = pt.tag_id
		WHERE pt.product_id IN (`+placeholders(len(ids))+`)
		ORDER BY tg.name`, toArgs(ids)...)
	if err != nil {
		return fmt.Errorf("failed to query product tags: %w", err)
	}
	defer rows.Close()

	tagsPerProduct := map[string][]string{}
	for rows.Next() {
		productID, name := "", ""
		err := rows.Scan(&productID, &name)
		if err != nil {
			return fmt.Errorf("failed to scan product tag: %w", err)
		}
		tagsPerProduct[productID] = append(tagsPerProduct[productID], name)
	}
	err = rows.Err()
	if err != nil {
		return fmt.Errorf("error iterating product tags: %w", err)
	}

	for i := range products {
		products[i].Tags = tagsPerProduct[products[i].ID]
		if products[i].Tags == nil {
			products[i].Tags = []string{}
		}
	}
	return nil
}

func (r *sqlRepository) GetTenantBySlug(c context.Context, slug string) (Tenant, bool, error) {
	t := Tenant{}
	err := r.db.QueryRowContext(c, `
		SELECT id, name, slug, COALESCE(image_url, ''), stripe_account_id, stripe_details_submitted
		FROM tenants WHERE slug = ?`, slug).
		Scan(&t.ID, &t.Name, &t.Slug, &t.ImageURL, &t.StripeAccountID, &t.StripeDetailsSubmitted)
	if errors.Is(err, sql.ErrNoRows) {
		return Tenant{}, false, nil
	}
	if err != nil {
		return Tenant{}, false, fmt.Errorf("failed to query tenant %s: %w", slug, err)
	}
	return t, true, nil
}

func (r *sqlRepository) ListCategories(c context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(c, `
		SELECT id, name, slug, COALESCE(color, ''), COALESCE(parent_id, '')
		FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	all := []Category{}
	for rows.Next() {
		cat := Category{}
		err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.Color, &cat.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		all = append(all, cat)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	children := map[string][]Category{}
	for _, cat := range all {
		if cat.ParentID != "" {
			children[cat.ParentID] = append(children[cat.ParentID], cat)
		}
	}

	topLevel := []Category{}
	for _, cat := range all {
		if cat.ParentID == "" {
			cat.Subcategories = children[cat.ID]
			if cat.Subcategories == nil {
				cat.Subcategories = []Category{}
			}
			topLevel = append(topLevel, cat)
		}
	}
	return topLevel, nil
}

func (r *sqlRepository) ListTags(c context.Context, page int, limit int) (Page[Tag], error) {
	page, limit = NormalizePaging(page, limit)

	total := 0
	err := r.db.QueryRowContext(c, `SELECT COUNT(*) FROM tags`).Scan(&total)
	if err != nil {
		return Page[Tag]{}, fmt.Errorf("failed to count tags: %w", err)
	}

	rows, err := r.db.QueryContext(c, `SELECT id, name FROM tags ORDER BY name LIMIT ? OFFSET ?`, limit, (page-1)*limit)
	if err != nil {
		return Page[Tag]{}, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		tag := Tag{}
		err := rows.Scan(&tag.ID, &tag.Name)
		if err != nil {
			return Page[Tag]{}, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	err = rows.Err()
	if err != nil {
		return Page[Tag]{}, fmt.Errorf("error iterating tags: %w", err)
	}

	return NewPage(tags, total, page, limit), nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func toArgs(values []string) []any {
	args := make([]any, 0, len(values))
	for _, v := range values {
		args = append(args, v)
	}
	return args
}
