package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/jinzhu/copier"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/getfitted/fitted/pkg/models"

	"github.com/google/uuid"
)

const defaultPageLimit = 20

var _ models.ItemStore = &ItemStoreDAO{}

type ItemStoreDAO struct {
	db             *bun.DB
	embeddingStore models.EmbeddingStore
}

func NewItemStoreDAO(db *bun.DB) *ItemStoreDAO {
	return &ItemStoreDAO{db: db}
}

// SetEmbeddingStore wires the persistent embedding store so deletes cascade
// to the item's stored vector.
func (dao *ItemStoreDAO) SetEmbeddingStore(store models.EmbeddingStore) {
	dao.embeddingStore = store
}

// masterRowRetryPolicy retries get-or-create races on the color and occasion
// master tables. Two concurrent inserts of the same name leave one loser with
// an integrity violation; the retry then finds the winner's row.
var masterRowRetryPolicy = retrypolicy.Builder[int64]().
	HandleIf(func(_ int64, err error) bool {
		var pgErr pgdriver.Error
		return errors.As(err, &pgErr) && pgErr.IntegrityViolation()
	}).
	WithBackoff(50*time.Millisecond, time.Second).
	WithMaxRetries(3).
	Build()

// Create creates a wardrobe item, its master color/occasion rows, and the
// junction rows linking them, in a single transaction.
func (dao *ItemStoreDAO) Create(
	ctx context.Context,
	request *models.CreateItemRequest,
) (*models.WardrobeItem, error) {
	if request.UserID == "" {
		return nil, models.NewBadRequestError("UserID cannot be empty")
	}

	itemDB := &WardrobeItemSchema{
		UserID:           request.UserID,
		Description:      request.Description,
		Category:         request.Category,
		Subcategory:      request.Subcategory,
		Fit:              request.Fit,
		Brand:            request.Brand,
		ImageURL:         request.ImageURL,
		ImprovedImageURL: request.ImprovedImageURL,
	}

	// Master rows are resolved outside the transaction: a lost get-or-create
	// race would otherwise abort the whole tx before the retry runs.
	colorIDs, err := dao.resolveMasterRows(ctx, (*ColorSchema)(nil), request.Colors)
	if err != nil {
		return nil, err
	}
	occasionIDs, err := dao.resolveMasterRows(ctx, (*OccasionSchema)(nil), request.Occasions)
	if err != nil {
		return nil, err
	}

	err = dao.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(itemDB).Returning("*").Exec(ctx); err != nil {
			return err
		}
		if err := linkColors(ctx, tx, itemDB.UUID, colorIDs); err != nil {
			return err
		}
		return linkOccasions(ctx, tx, itemDB.UUID, occasionIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	item := itemSchemaToItem(itemDB)
	item.Colors = request.Colors
	item.Occasions = request.Occasions
	return item, nil
}

// Get gets a wardrobe item owned by userID.
func (dao *ItemStoreDAO) Get(
	ctx context.Context,
	userID string,
	itemUUID uuid.UUID,
) (*models.WardrobeItem, error) {
	itemDB := new(WardrobeItemSchema)
	err := dao.db.NewSelect().
		Model(itemDB).
		Where("uuid = ?", itemUUID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("item " + itemUUID.String())
		}
		return nil, err
	}

	item := itemSchemaToItem(itemDB)
	if err := dao.loadLinks(ctx, []*models.WardrobeItem{item}); err != nil {
		return nil, err
	}
	return item, nil
}

// List returns a filtered, paged listing of the user's wardrobe.
func (dao *ItemStoreDAO) List(
	ctx context.Context,
	userID string,
	filters *models.ItemFilters,
) (*models.ItemListResponse, error) {
	if filters == nil {
		filters = &models.ItemFilters{}
	}
	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}

	query := dao.db.NewSelect().
		Model((*WardrobeItemSchema)(nil)).
		Where("wi.user_id = ?", userID)

	if filters.Category != "" {
		query = query.Where("wi.category = ?", filters.Category)
	}
	if filters.Fit != "" {
		query = query.Where("wi.fit = ?", filters.Fit)
	}
	if filters.Search != "" {
		query = query.Where("wi.description ILIKE ?", "%"+filters.Search+"%")
	}
	if filters.Color != "" {
		query = query.Where(
			"wi.uuid IN (SELECT wic.item_uuid FROM wardrobe_item_color wic JOIN color c ON c.id = wic.color_id WHERE c.name = ?)",
			filters.Color,
		)
	}
	if filters.Occasion != "" {
		query = query.Where(
			"wi.uuid IN (SELECT wio.item_uuid FROM wardrobe_item_occasion wio JOIN occasion o ON o.id = wio.occasion_id WHERE o.name = ?)",
			filters.Occasion,
		)
	}

	var itemsDB []WardrobeItemSchema
	total, err := query.
		Order("id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		ScanAndCount(ctx, &itemsDB)
	if err != nil {
		return nil, err
	}

	items := make([]models.WardrobeItem, len(itemsDB))
	refs := make([]*models.WardrobeItem, len(itemsDB))
	for i := range itemsDB {
		items[i] = *itemSchemaToItem(&itemsDB[i])
		refs[i] = &items[i]
	}
	if err := dao.loadLinks(ctx, refs); err != nil {
		return nil, err
	}

	return &models.ItemListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// ListAll returns every item owned by userID, unpaged, for retrieval.
func (dao *ItemStoreDAO) ListAll(
	ctx context.Context,
	userID string,
) ([]models.WardrobeItem, error) {
	var itemsDB []WardrobeItemSchema
	err := dao.db.NewSelect().
		Model(&itemsDB).
		Where("user_id = ?", userID).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.WardrobeItem, len(itemsDB))
	refs := make([]*models.WardrobeItem, len(itemsDB))
	for i := range itemsDB {
		items[i] = *itemSchemaToItem(&itemsDB[i])
		refs[i] = &items[i]
	}
	if err := dao.loadLinks(ctx, refs); err != nil {
		return nil, err
	}
	return items, nil
}

// Update applies a partial update. Nil request fields are left unchanged.
// Color and occasion lists, when present, replace the item's junction rows.
func (dao *ItemStoreDAO) Update(
	ctx context.Context,
	userID string,
	itemUUID uuid.UUID,
	update *models.UpdateItemRequest,
) (*models.WardrobeItem, error) {
	current, err := dao.Get(ctx, userID, itemUUID)
	if err != nil {
		return nil, err
	}

	merged := applyItemUpdate(current, update)

	itemDB := &WardrobeItemSchema{
		Description: merged.Description,
		Category:    merged.Category,
		Subcategory: merged.Subcategory,
		Fit:         merged.Fit,
		Brand:       merged.Brand,
	}

	var colorIDs, occasionIDs []int64
	if update.Colors != nil {
		colorIDs, err = dao.resolveMasterRows(ctx, (*ColorSchema)(nil), update.Colors)
		if err != nil {
			return nil, err
		}
	}
	if update.Occasions != nil {
		occasionIDs, err = dao.resolveMasterRows(ctx, (*OccasionSchema)(nil), update.Occasions)
		if err != nil {
			return nil, err
		}
	}

	err = dao.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		result, err := tx.NewUpdate().
			Model(itemDB).
			Column("description", "category", "subcategory", "fit", "brand", "updated_at").
			Where("uuid = ?", itemUUID).
			Where("user_id = ?", userID).
			Exec(ctx)
		if err != nil {
			return err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		// The item can vanish between the initial Get and this tx.
		if rows == 0 {
			return models.NewNotFoundError("item " + itemUUID.String())
		}

		if update.Colors != nil {
			if _, err := tx.NewDelete().
				Model((*WardrobeItemColorSchema)(nil)).
				Where("item_uuid = ?", itemUUID).
				Exec(ctx); err != nil {
				return err
			}
			if err := linkColors(ctx, tx, itemUUID, colorIDs); err != nil {
				return err
			}
		}
		if update.Occasions != nil {
			if _, err := tx.NewDelete().
				Model((*WardrobeItemOccasionSchema)(nil)).
				Where("item_uuid = ?", itemUUID).
				Exec(ctx); err != nil {
				return err
			}
			if err := linkOccasions(ctx, tx, itemUUID, occasionIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	return dao.Get(ctx, userID, itemUUID)
}

// Delete removes the item. Junction rows and the persisted embedding cascade
// via foreign keys; the embedding store is also told directly so non-FK
// backends stay consistent.
func (dao *ItemStoreDAO) Delete(
	ctx context.Context,
	userID string,
	itemUUID uuid.UUID,
) error {
	result, err := dao.db.NewDelete().
		Model((*WardrobeItemSchema)(nil)).
		Where("uuid = ?", itemUUID).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.NewNotFoundError("item " + itemUUID.String())
	}

	if dao.embeddingStore != nil {
		if err := dao.embeddingStore.DeleteItemEmbedding(ctx, itemUUID); err != nil {
			log.Warnf("failed to delete stored embedding for item %s: %v", itemUUID, err)
		}
	}
	return nil
}

// resolveMasterRows maps color or occasion names to their master-table row
// IDs, creating missing rows. The model argument selects the table.
func (dao *ItemStoreDAO) resolveMasterRows(
	ctx context.Context,
	model any,
	names []string,
) ([]int64, error) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := failsafe.Get(func() (int64, error) {
			return dao.getOrCreateMasterRow(ctx, model, name)
		}, masterRowRetryPolicy)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve master row %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (dao *ItemStoreDAO) getOrCreateMasterRow(
	ctx context.Context,
	model any,
	name string,
) (int64, error) {
	switch model.(type) {
	case *ColorSchema:
		row := &ColorSchema{Name: name}
		err := dao.db.NewSelect().Model(row).Where("name = ?", name).Scan(ctx)
		if err == nil {
			return row.ID, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		if _, err := dao.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
			return 0, err
		}
		return row.ID, nil
	case *OccasionSchema:
		row := &OccasionSchema{Name: name}
		err := dao.db.NewSelect().Model(row).Where("name = ?", name).Scan(ctx)
		if err == nil {
			return row.ID, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		if _, err := dao.db.NewInsert().Model(row).Returning("id").Exec(ctx); err != nil {
			return 0, err
		}
		return row.ID, nil
	default:
		return 0, fmt.Errorf("unsupported master row model %T", model)
	}
}

func linkColors(ctx context.Context, tx bun.Tx, itemUUID uuid.UUID, colorIDs []int64) error {
	for _, colorID := range colorIDs {
		link := &WardrobeItemColorSchema{ItemUUID: itemUUID, ColorID: colorID}
		if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func linkOccasions(ctx context.Context, tx bun.Tx, itemUUID uuid.UUID, occasionIDs []int64) error {
	for _, occasionID := range occasionIDs {
		link := &WardrobeItemOccasionSchema{ItemUUID: itemUUID, OccasionID: occasionID}
		if _, err := tx.NewInsert().Model(link).Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

type itemLinkRow struct {
	ItemUUID uuid.UUID `bun:"item_uuid"`
	Name     string    `bun:"name"`
}

// loadLinks populates Colors and Occasions for the given items from the
// junction tables in two queries.
func (dao *ItemStoreDAO) loadLinks(ctx context.Context, items []*models.WardrobeItem) error {
	if len(items) == 0 {
		return nil
	}
	byUUID := make(map[uuid.UUID]*models.WardrobeItem, len(items))
	uuids := make([]uuid.UUID, len(items))
	for i, item := range items {
		byUUID[item.UUID] = item
		uuids[i] = item.UUID
	}

	var colorRows []itemLinkRow
	err := dao.db.NewSelect().
		TableExpr("wardrobe_item_color AS wic").
		ColumnExpr("wic.item_uuid, c.name").
		Join("JOIN color AS c ON c.id = wic.color_id").
		Where("wic.item_uuid IN (?)", bun.In(uuids)).
		Order("c.id ASC").
		Scan(ctx, &colorRows)
	if err != nil {
		return err
	}
	for _, row := range colorRows {
		if item, ok := byUUID[row.ItemUUID]; ok {
			item.Colors = append(item.Colors, row.Name)
		}
	}

	var occasionRows []itemLinkRow
	err = dao.db.NewSelect().
		TableExpr("wardrobe_item_occasion AS wio").
		ColumnExpr("wio.item_uuid, o.name").
		Join("JOIN occasion AS o ON o.id = wio.occasion_id").
		Where("wio.item_uuid IN (?)", bun.In(uuids)).
		Order("o.id ASC").
		Scan(ctx, &occasionRows)
	if err != nil {
		return err
	}
	for _, row := range occasionRows {
		if item, ok := byUUID[row.ItemUUID]; ok {
			item.Occasions = append(item.Occasions, row.Name)
		}
	}

	return nil
}

// applyItemUpdate applies non-nil update fields over the current item without
// mutating it. A pointer field applies whatever value it carries, so an
// explicit empty string clears the stored value.
func applyItemUpdate(
	current *models.WardrobeItem,
	update *models.UpdateItemRequest,
) *models.WardrobeItem {
	merged := *current
	if update.Description != nil {
		merged.Description = *update.Description
	}
	if update.Category != nil {
		merged.Category = *update.Category
	}
	if update.Subcategory != nil {
		merged.Subcategory = *update.Subcategory
	}
	if update.Fit != nil {
		merged.Fit = *update.Fit
	}
	if update.Brand != nil {
		merged.Brand = *update.Brand
	}
	if update.Colors != nil {
		merged.Colors = update.Colors
	}
	if update.Occasions != nil {
		merged.Occasions = update.Occasions
	}
	return &merged
}

// itemSchemaToItem maps a schema row to the domain model. Colors and
// occasions are loaded separately from the junction tables.
func itemSchemaToItem(itemDB *WardrobeItemSchema) *models.WardrobeItem {
	item := &models.WardrobeItem{}
	if err := copier.Copy(item, itemDB); err != nil {
		log.Errorf("failed to copy item schema: %v", err)
	}
	return item
}
