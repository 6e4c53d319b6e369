package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/getfitted/fitted/config"
	"github.com/getfitted/fitted/internal"

	"github.com/google/uuid"
	"github.com/oiime/logrusbun"
	"github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
)

var log = internal.GetLogger()

type WardrobeItemSchema struct {
	bun.BaseModel `bun:"table:wardrobe_item,alias:wi"`

	UUID uuid.UUID `bun:",pk,type:uuid,default:gen_random_uuid()"`
	// ID is used as a stable cursor for pagination
	ID               int64     `bun:",autoincrement"`
	CreatedAt        time.Time `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`
	DeletedAt        time.Time `bun:"type:timestamptz,soft_delete,nullzero"`
	UserID           string    `bun:",notnull"`
	Description      string    `bun:",notnull"`
	Category         string    `bun:",notnull"`
	Subcategory      string    `bun:",notnull"`
	Fit              string    `bun:",nullzero"`
	Brand            string    `bun:",nullzero"`
	ImageURL         string    `bun:",nullzero"`
	ImprovedImageURL string    `bun:",nullzero"`
}

var _ bun.BeforeAppendModelHook = (*WardrobeItemSchema)(nil)

func (s *WardrobeItemSchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

// BeforeCreateTable is a marker method to ensure uniform interface across all
// table models - used in the table creation iterator
func (s *WardrobeItemSchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

// ColorSchema is the color master table. Item colors reference it through the
// wardrobe_item_color junction table.
type ColorSchema struct {
	bun.BaseModel `bun:"table:color,alias:c"`

	ID   int64  `bun:",pk,autoincrement"`
	Name string `bun:",unique,notnull"`
}

func (s *ColorSchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

// OccasionSchema is the occasion master table.
type OccasionSchema struct {
	bun.BaseModel `bun:"table:occasion,alias:o"`

	ID   int64  `bun:",pk,autoincrement"`
	Name string `bun:",unique,notnull"`
}

func (s *OccasionSchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

type WardrobeItemColorSchema struct {
	bun.BaseModel `bun:"table:wardrobe_item_color,alias:wic"`

	ItemUUID uuid.UUID           `bun:"type:uuid,notnull"`
	ColorID  int64               `bun:",notnull"`
	Item     *WardrobeItemSchema `bun:"rel:belongs-to,join:item_uuid=uuid,on_delete:cascade"`
	Color    *ColorSchema        `bun:"rel:belongs-to,join:color_id=id,on_delete:cascade"`
}

func (s *WardrobeItemColorSchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

type WardrobeItemOccasionSchema struct {
	bun.BaseModel `bun:"table:wardrobe_item_occasion,alias:wio"`

	ItemUUID   uuid.UUID           `bun:"type:uuid,notnull"`
	OccasionID int64               `bun:",notnull"`
	Item       *WardrobeItemSchema `bun:"rel:belongs-to,join:item_uuid=uuid,on_delete:cascade"`
	Occasion   *OccasionSchema     `bun:"rel:belongs-to,join:occasion_id=id,on_delete:cascade"`
}

func (s *WardrobeItemOccasionSchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

type PromptSchema struct {
	bun.BaseModel `bun:"table:prompt,alias:p"`

	UUID        uuid.UUID `bun:",pk,type:uuid,default:gen_random_uuid()"`
	CreatedAt   time.Time `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`
	DeletedAt   time.Time `bun:"type:timestamptz,soft_delete,nullzero"`
	Name        string    `bun:",notnull"`
	Description string    `bun:",nullzero"`
	Type        string    `bun:",notnull"`
	Content     string    `bun:",notnull"`
	Version     int       `bun:",notnull,default:1"`
	IsActive    bool      `bun:"type:bool,notnull,default:false"`
}

var _ bun.BeforeAppendModelHook = (*PromptSchema)(nil)

func (s *PromptSchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (s *PromptSchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

// ItemEmbeddingSchema stores the latest embedding vector per wardrobe item.
// The fingerprint is the cache key the in-memory cache uses; a stale
// fingerprint means the description changed and the row is obsolete.
type ItemEmbeddingSchema struct {
	bun.BaseModel `bun:"table:item_embedding,alias:ie"`

	UUID        uuid.UUID           `bun:",pk,type:uuid,default:gen_random_uuid()"`
	CreatedAt   time.Time           `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time           `bun:"type:timestamptz,nullzero,notnull,default:current_timestamp"`
	ItemUUID    uuid.UUID           `bun:"type:uuid,notnull,unique"`
	Fingerprint string              `bun:",notnull"`
	Embedding   pgvector.Vector     `bun:"type:vector(1536)"`
	Item        *WardrobeItemSchema `bun:"rel:belongs-to,join:item_uuid=uuid,on_delete:cascade"`
}

var _ bun.BeforeAppendModelHook = (*ItemEmbeddingSchema)(nil)

func (s *ItemEmbeddingSchema) BeforeAppendModel(_ context.Context, query bun.Query) error {
	if _, ok := query.(*bun.UpdateQuery); ok {
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (s *ItemEmbeddingSchema) BeforeCreateTable(
	_ context.Context,
	_ *bun.CreateTableQuery,
) error {
	return nil
}

var _ bun.AfterCreateTableHook = (*WardrobeItemSchema)(nil)
var _ bun.AfterCreateTableHook = (*WardrobeItemColorSchema)(nil)
var _ bun.AfterCreateTableHook = (*WardrobeItemOccasionSchema)(nil)
var _ bun.AfterCreateTableHook = (*PromptSchema)(nil)
var _ bun.AfterCreateTableHook = (*ItemEmbeddingSchema)(nil)

func (*WardrobeItemSchema) AfterCreateTable(
	ctx context.Context,
	query *bun.CreateTableQuery,
) error {
	_, err := query.DB().NewCreateIndex().
		Model((*WardrobeItemSchema)(nil)).
		Index("wardrobe_item_user_id_idx").
		Column("user_id").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = query.DB().NewCreateIndex().
		Model((*WardrobeItemSchema)(nil)).
		Index("wardrobe_item_category_idx").
		Column("category").
		IfNotExists().
		Exec(ctx)
	return err
}

func (*WardrobeItemColorSchema) AfterCreateTable(
	ctx context.Context,
	query *bun.CreateTableQuery,
) error {
	_, err := query.DB().NewCreateIndex().
		Model((*WardrobeItemColorSchema)(nil)).
		Index("wardrobe_item_color_item_uuid_idx").
		Column("item_uuid").
		IfNotExists().
		Exec(ctx)
	return err
}

func (*WardrobeItemOccasionSchema) AfterCreateTable(
	ctx context.Context,
	query *bun.CreateTableQuery,
) error {
	_, err := query.DB().NewCreateIndex().
		Model((*WardrobeItemOccasionSchema)(nil)).
		Index("wardrobe_item_occasion_item_uuid_idx").
		Column("item_uuid").
		IfNotExists().
		Exec(ctx)
	return err
}

func (*PromptSchema) AfterCreateTable(
	ctx context.Context,
	query *bun.CreateTableQuery,
) error {
	_, err := query.DB().NewCreateIndex().
		Model((*PromptSchema)(nil)).
		Index("prompt_type_idx").
		Column("type").
		IfNotExists().
		Exec(ctx)
	return err
}

func (*ItemEmbeddingSchema) AfterCreateTable(
	ctx context.Context,
	query *bun.CreateTableQuery,
) error {
	_, err := query.DB().NewCreateIndex().
		Model((*ItemEmbeddingSchema)(nil)).
		Index("item_embedding_item_uuid_idx").
		Column("item_uuid").
		IfNotExists().
		Exec(ctx)
	return err
}

// tableList is ordered with foreign key dependents first; CreateSchema
// iterates it in reverse so referenced tables are created before referencing
// ones.
var tableList = []bun.BeforeCreateTableHook{
	&ItemEmbeddingSchema{},
	&WardrobeItemColorSchema{},
	&WardrobeItemOccasionSchema{},
	&PromptSchema{},
	&ColorSchema{},
	&OccasionSchema{},
	&WardrobeItemSchema{},
}

// enablePgVectorExtension creates the pgvector extension if it does not exist
// and updates it if it is out of date.
func enablePgVectorExtension(_ context.Context, db *bun.DB) error {
	_, err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector")
	if err != nil {
		return fmt.Errorf("error creating pgvector extension: %w", err)
	}

	// if this is an upgrade, we may need to update the pgvector extension
	// this is a no-op if the extension is already up to date
	_, err = db.Exec("ALTER EXTENSION vector UPDATE")
	if err != nil {
		return fmt.Errorf("error updating pgvector extension: %w", err)
	}

	return nil
}

// CreateSchema creates the db schema if it does not exist.
func CreateSchema(ctx context.Context, cfg *config.Config, db *bun.DB) error {
	for i := len(tableList) - 1; i >= 0; i-- {
		schema := tableList[i]
		_, err := db.NewCreateTable().
			Model(schema).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx)
		if err != nil {
			// bun still trying to create indexes despite IfNotExists flag
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return fmt.Errorf("error creating table for schema %T: %w", schema, err)
		}
	}

	if err := checkItemEmbeddingDims(ctx, cfg, db); err != nil {
		return fmt.Errorf("error checking item embedding dimensions: %w", err)
	}

	hnsw, err := isHNSWAvailable(ctx, db)
	if err != nil {
		return err
	}
	if hnsw {
		if err := createHNSWIndex(ctx, db, "item_embedding", "embedding"); err != nil {
			return fmt.Errorf("error creating hnsw index: %w", err)
		}
	}

	return nil
}

// createHNSWIndex creates an HNSW index on the given table and column if it
// does not exist. Only vector_cosine_ops is supported.
func createHNSWIndex(ctx context.Context, db *bun.DB, table, column string) error {
	const (
		m              = 16
		efConstruction = 64
	)

	idx := table + "_" + column + "_hnsw_idx"

	_, err := db.ExecContext(
		ctx,
		"CREATE INDEX CONCURRENTLY IF NOT EXISTS ? ON ? USING hnsw (? vector_cosine_ops) WITH (M = ?, ef_construction = ?);",
		bun.Safe(idx),
		bun.Ident(table),
		bun.Ident(column),
		m,
		efConstruction,
	)
	return err
}

// checkItemEmbeddingDims checks the dimensions of the item embedding column
// against the configured embedding model. If they do not match, the column is
// dropped and recreated with the configured dimensions.
func checkItemEmbeddingDims(ctx context.Context, cfg *config.Config, db *bun.DB) error {
	dimensions := cfg.Embeddings.Dimensions
	if dimensions == 0 {
		return nil
	}
	width, err := getEmbeddingColumnWidth(ctx, "item_embedding", db)
	if err != nil {
		return fmt.Errorf("error getting embedding column width: %w", err)
	}

	if width != dimensions {
		log.Warnf(
			"item embedding dimensions are %d, expected %d. migrating the embedding column; existing vectors will be lost and regenerated on demand",
			width,
			dimensions,
		)
		if err := migrateItemEmbeddingDims(ctx, db, dimensions); err != nil {
			return fmt.Errorf("error migrating item embedding dimensions: %w", err)
		}
	}
	return nil
}

// getEmbeddingColumnWidth returns the width of the embedding column in the
// provided table.
func getEmbeddingColumnWidth(ctx context.Context, tableName string, db *bun.DB) (int, error) {
	var width int
	err := db.NewSelect().
		Table("pg_attribute").
		ColumnExpr("atttypmod"). // vector width is stored in atttypmod
		Where("attrelid = ?::regclass", tableName).
		Where("attname = 'embedding'").
		Scan(ctx, &width)
	if err != nil {
		return 0, fmt.Errorf("error getting embedding column width: %w", err)
	}
	return width, nil
}

// migrateItemEmbeddingDims drops the old embedding column and creates a new
// one with the correct dimensions.
func migrateItemEmbeddingDims(ctx context.Context, db *bun.DB, dimensions int) error {
	columnQuery := `DO $$
BEGIN
    IF EXISTS (
        SELECT 1
        FROM   information_schema.columns
        WHERE  table_name = 'item_embedding'
        AND    column_name = 'embedding'
    ) THEN
        ALTER TABLE item_embedding DROP COLUMN embedding;
    END IF;
END $$;`

	_, err := db.ExecContext(ctx, columnQuery)
	if err != nil {
		return fmt.Errorf("error dropping column embedding: %w", err)
	}
	_, err = db.NewAddColumn().
		Model((*ItemEmbeddingSchema)(nil)).
		ColumnExpr(fmt.Sprintf("embedding vector(%d)", dimensions)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("error adding embedding column: %w", err)
	}

	return nil
}

// NewPostgresConn creates a new bun.DB connection to a postgres database using
// the provided DSN. The connection is configured to pool connections based on
// the number of PROCs available.
func NewPostgresConn(cfg *config.Config) (*bun.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	maxOpenConns := 4 * runtime.GOMAXPROCS(0)

	sqldb := sql.OpenDB(
		pgdriver.NewConnector(
			pgdriver.WithDSN(cfg.Store.Postgres.DSN),
			pgdriver.WithReadTimeout(10*time.Minute),
		),
	)
	sqldb.SetMaxOpenConns(maxOpenConns)
	sqldb.SetMaxIdleConns(maxOpenConns)

	db := bun.NewDB(sqldb, pgdialect.New())
	if strings.EqualFold(cfg.Log.Level, "debug") {
		db.AddQueryHook(logrusbun.NewQueryHook(logrusbun.QueryHookOptions{
			LogSlow:         time.Second,
			Logger:          log,
			QueryLevel:      logrus.DebugLevel,
			ErrorLevel:      logrus.ErrorLevel,
			SlowLevel:       logrus.WarnLevel,
			MessageTemplate: "{{.Operation}}[{{.Duration}}]: {{.Query}}",
			ErrorTemplate:   "{{.Operation}}[{{.Duration}}]: {{.Query}}: {{.Error}}",
		}))
	}

	if err := enablePgVectorExtension(ctx, db); err != nil {
		log.Error("error enabling pgvector extension: ", err)
		return nil, err
	}

	return db, nil
}

// isHNSWAvailable checks if the vector extension version is 0.5.0+.
func isHNSWAvailable(ctx context.Context, db *bun.DB) (bool, error) {
	const minVersion = "0.5.0"
	requiredVersion, err := semver.NewVersion(minVersion)
	if err != nil {
		return false, fmt.Errorf("error parsing required vector extension version: %w", err)
	}

	var version string
	err = db.NewSelect().
		Column("extversion").
		TableExpr("pg_extension").
		Where("extname = 'vector'").
		Scan(ctx, &version)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Debug("vector extension not installed")
			return false, nil
		}
		return false, fmt.Errorf("error checking vector extension version: %w", err)
	}

	thisVersion, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("error parsing vector extension version: %w", err)
	}

	if requiredVersion.GreaterThan(thisVersion) {
		log.Infof("vector extension version is < %s. hnsw indexing not available", minVersion)
		return false, nil
	}

	log.Infof("vector extension version is >= %s. hnsw indexing available", minVersion)

	return true, nil
}
