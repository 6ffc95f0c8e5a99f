package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/glebarez/sqlite"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	searchErrors "github.com/gcbaptista/go-gig-search/internal/errors"
	"github.com/gcbaptista/go-gig-search/model"
	"github.com/gcbaptista/go-gig-search/services"
)

// Supported SQL drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

const schema = `
CREATE TABLE IF NOT EXISTS listings (
	id                TEXT PRIMARY KEY,
	seller_id         TEXT NOT NULL DEFAULT '',
	title             TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	category_id       TEXT,
	category_name     TEXT,
	sub_category_id   TEXT,
	sub_category_name TEXT,
	tags              TEXT NOT NULL DEFAULT '[]',
	packages          TEXT NOT NULL DEFAULT '[]',
	images            TEXT NOT NULL DEFAULT '[]',
	is_hourly         BOOLEAN NOT NULL DEFAULT FALSE,
	hourly_rate       DOUBLE PRECISION,
	min_package_price DOUBLE PRECISION,
	max_package_price DOUBLE PRECISION,
	status            TEXT NOT NULL,
	search_text       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_listings_status ON listings (status);
`

const listingColumns = `id, seller_id, title, description, category_id, category_name,
	sub_category_id, sub_category_name, tags, packages, images, is_hourly, hourly_rate,
	min_package_price, max_package_price, status, search_text`

const upsertListing = `
INSERT INTO listings (` + listingColumns + `)
VALUES (:id, :seller_id, :title, :description, :category_id, :category_name,
	:sub_category_id, :sub_category_name, :tags, :packages, :images, :is_hourly, :hourly_rate,
	:min_package_price, :max_package_price, :status, :search_text)
ON CONFLICT (id) DO UPDATE SET
	seller_id = excluded.seller_id,
	title = excluded.title,
	description = excluded.description,
	category_id = excluded.category_id,
	category_name = excluded.category_name,
	sub_category_id = excluded.sub_category_id,
	sub_category_name = excluded.sub_category_name,
	tags = excluded.tags,
	packages = excluded.packages,
	images = excluded.images,
	is_hourly = excluded.is_hourly,
	hourly_rate = excluded.hourly_rate,
	min_package_price = excluded.min_package_price,
	max_package_price = excluded.max_package_price,
	status = excluded.status,
	search_text = excluded.search_text`

// listingRow is the flattened SQL form of model.Listing.
type listingRow struct {
	ID              string          `db:"id"`
	SellerID        string          `db:"seller_id"`
	Title           string          `db:"title"`
	Description     string          `db:"description"`
	CategoryID      sql.NullString  `db:"category_id"`
	CategoryName    sql.NullString  `db:"category_name"`
	SubCategoryID   sql.NullString  `db:"sub_category_id"`
	SubCategoryName sql.NullString  `db:"sub_category_name"`
	Tags            string          `db:"tags"`
	Packages        string          `db:"packages"`
	Images          string          `db:"images"`
	IsHourly        bool            `db:"is_hourly"`
	HourlyRate      sql.NullFloat64 `db:"hourly_rate"`
	MinPackagePrice sql.NullFloat64 `db:"min_package_price"`
	MaxPackagePrice sql.NullFloat64 `db:"max_package_price"`
	Status          string          `db:"status"`
	SearchText      string          `db:"search_text"`
}

// SQLStore serves listings from Postgres or SQLite.
// It implements services.ListingStore.
type SQLStore struct {
	db     *sqlx.DB
	driver string
}

// NewSQLStore connects to the database and creates the listings table if needed.
func NewSQLStore(driver, dsn string, maxConn, maxIdleConn int) (*SQLStore, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported SQL driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == DriverSQLite && strings.Contains(dsn, ":memory:") {
		// Every connection to :memory: is a separate database.
		maxConn, maxIdleConn = 1, 1
	}
	if maxConn > 0 {
		db.SetMaxOpenConns(maxConn)
	}
	if maxIdleConn > 0 {
		db.SetMaxIdleConns(maxIdleConn)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	s := &SQLStore{db: db, driver: driver}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create listings schema: %w", err)
		}
	}
	return nil
}

// Driver returns the SQL driver name.
func (s *SQLStore) Driver() string {
	return s.driver
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// termClause builds the text-match condition for the configured driver.
func (s *SQLStore) termClause(terms []string) (string, []interface{}) {
	quoted := quotedTerms(terms)
	if len(quoted) == 0 {
		return "", nil
	}

	if s.driver == DriverPostgres {
		return "search_text ~* ?", []interface{}{strings.Join(quoted, "|")}
	}

	conds := make([]string, 0, len(terms))
	args := make([]interface{}, 0, len(terms))
	for _, term := range terms {
		if term == "" {
			continue
		}
		conds = append(conds, `search_text LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(term))+"%")
	}
	return "(" + strings.Join(conds, " OR ") + ")", args
}

func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}

// FindCandidates runs coarse retrieval in SQL.
func (s *SQLStore) FindCandidates(ctx context.Context, query services.CandidateQuery) ([]model.Listing, error) {
	termCond, termArgs := s.termClause(query.Terms)
	if termCond == "" {
		return []model.Listing{}, nil
	}

	whereClauses := []string{"status = ?", termCond}
	args := []interface{}{model.ListingStatusActive}
	args = append(args, termArgs...)

	filter := query.Filter
	if len(filter.CategoryIDs) > 0 {
		whereClauses = append(whereClauses, "category_id IN (?)")
		args = append(args, filter.CategoryIDs)
	}
	if len(filter.SubCategoryIDs) > 0 {
		whereClauses = append(whereClauses, "sub_category_id IN (?)")
		args = append(args, filter.SubCategoryIDs)
	}
	if len(filter.SellerIDs) > 0 {
		whereClauses = append(whereClauses, "seller_id IN (?)")
		args = append(args, filter.SellerIDs)
	}
	if filter.IsHourly != nil {
		whereClauses = append(whereClauses, "is_hourly = ?")
		args = append(args, *filter.IsHourly)
	}
	if filter.PriceMin != nil {
		whereClauses = append(whereClauses, "max_package_price >= ?")
		args = append(args, *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		whereClauses = append(whereClauses, "min_package_price <= ?")
		args = append(args, *filter.PriceMax)
	}

	selectQuery := fmt.Sprintf("SELECT %s FROM listings WHERE %s ORDER BY id", listingColumns, strings.Join(whereClauses, " AND "))
	if query.Limit > 0 {
		selectQuery += " LIMIT ?"
		args = append(args, query.Limit)
	}

	expanded, expandedArgs, err := sqlx.In(selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to expand candidate query: %w", err)
	}

	var rows []listingRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(expanded), expandedArgs...); err != nil {
		return nil, fmt.Errorf("failed to fetch candidates: %w", err)
	}

	listings := make([]model.Listing, 0, len(rows))
	for _, row := range rows {
		listing, err := row.toListing()
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// GetListing fetches one listing by id.
func (s *SQLStore) GetListing(ctx context.Context, id string) (model.Listing, error) {
	var row listingRow
	query := s.db.Rebind("SELECT " + listingColumns + " FROM listings WHERE id = ?")
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Listing{}, searchErrors.NewListingNotFoundError(id)
		}
		return model.Listing{}, fmt.Errorf("failed to get listing: %w", err)
	}
	return row.toListing()
}

// UpsertListings writes all listings in one transaction.
func (s *SQLStore) UpsertListings(ctx context.Context, listings []model.Listing) error {
	rows := make([]listingRow, 0, len(listings))
	for _, listing := range listings {
		row, err := newListingRow(listing)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, upsertListing, row); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to upsert listing %s: %w", row.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit listings: %w", err)
	}
	return nil
}

// Count returns the number of stored listings.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM listings"); err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullFloat(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}

func marshalJSONText(value interface{}) (string, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func newListingRow(listing model.Listing) (listingRow, error) {
	if strings.TrimSpace(listing.ID) == "" {
		return listingRow{}, searchErrors.NewValidationError("_id", "listing id cannot be empty")
	}

	row := listingRow{
		ID:          listing.ID,
		SellerID:    listing.SellerID,
		Title:       listing.Title,
		Description: listing.Description,
		IsHourly:    listing.IsHourly,
		HourlyRate:  nullFloat(listing.HourlyRate),
		Status:      listing.Status,
		SearchText:  searchText(listing),
	}
	if listing.Category != nil {
		row.CategoryID = nullString(listing.Category.ID)
		row.CategoryName = nullString(listing.Category.Name)
	}
	if listing.SubCategory != nil {
		row.SubCategoryID = nullString(listing.SubCategory.ID)
		row.SubCategoryName = nullString(listing.SubCategory.Name)
	}
	lo, hi := priceBounds(listing)
	row.MinPackagePrice = nullFloat(lo)
	row.MaxPackagePrice = nullFloat(hi)

	var err error
	if row.Tags, err = marshalJSONText(nonNil(listing.Tags)); err != nil {
		return listingRow{}, fmt.Errorf("failed to encode tags of listing %s: %w", listing.ID, err)
	}
	packages := listing.Packages
	if packages == nil {
		packages = []model.Package{}
	}
	if row.Packages, err = marshalJSONText(packages); err != nil {
		return listingRow{}, fmt.Errorf("failed to encode packages of listing %s: %w", listing.ID, err)
	}
	if row.Images, err = marshalJSONText(nonNil(listing.Images)); err != nil {
		return listingRow{}, fmt.Errorf("failed to encode images of listing %s: %w", listing.ID, err)
	}
	return row, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func categoryRef(id, name sql.NullString) *model.CategoryRef {
	if !id.Valid && !name.Valid {
		return nil
	}
	return &model.CategoryRef{ID: id.String, Name: name.String}
}

func (r listingRow) toListing() (model.Listing, error) {
	listing := model.Listing{
		ID:          r.ID,
		SellerID:    r.SellerID,
		Title:       r.Title,
		Description: r.Description,
		Category:    categoryRef(r.CategoryID, r.CategoryName),
		SubCategory: categoryRef(r.SubCategoryID, r.SubCategoryName),
		IsHourly:    r.IsHourly,
		Status:      r.Status,
	}
	if r.HourlyRate.Valid {
		rate := r.HourlyRate.Float64
		listing.HourlyRate = &rate
	}

	if err := json.Unmarshal([]byte(r.Tags), &listing.Tags); err != nil {
		return model.Listing{}, fmt.Errorf("failed to decode tags of listing %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.Packages), &listing.Packages); err != nil {
		return model.Listing{}, fmt.Errorf("failed to decode packages of listing %s: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(r.Images), &listing.Images); err != nil {
		return model.Listing{}, fmt.Errorf("failed to decode images of listing %s: %w", r.ID, err)
	}
	return listing, nil
}
