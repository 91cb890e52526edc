package store

import (
	"context"
	"fmt"
	"time"

	"brigade/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// GormStore implements Store on top of a relational database.
type GormStore struct {
	db *gorm.DB
}

// Open connects to the database, migrates the schema, and seeds the default
// menu. Supported drivers: sqlite3, postgres.
func Open(driver, dsn string) (*GormStore, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}

	if err := db.AutoMigrate(
		&models.FoodItem{},
		&models.FeedbackRecord{},
		&models.Order{},
		&models.OrderItem{},
	).Error; err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	s := &GormStore{db: db}
	if err := s.seedMenu(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection.
func (s *GormStore) Close() error {
	return s.db.Close()
}

// seedMenu ensures a default menu exists so a fresh install can take orders
// and feedback immediately.
func (s *GormStore) seedMenu() error {
	var count int64
	s.db.Model(&models.FoodItem{}).Count(&count)
	if count > 0 {
		return nil
	}

	defaults := []models.FoodItem{
		{Name: "French Onion Soup", Category: "appetizer", Price: 9.50, Available: true},
		{Name: "Steak Frites", Category: "entree", Price: 28.00, Available: true},
		{Name: "Coq au Vin", Category: "entree", Price: 24.00, Available: true},
		{Name: "Ratatouille", Category: "entree", Price: 18.50, Available: true},
		{Name: "Crème Brûlée", Category: "dessert", Price: 8.00, Available: true},
	}
	for i := range defaults {
		if err := s.db.Create(&defaults[i]).Error; err != nil {
			return fmt.Errorf("seeding menu: %w", err)
		}
	}
	return nil
}

// QueryFeedback returns feedback matching the filter, oldest first, with the
// owning item's display name resolved onto each record. An empty result is a
// plain empty slice, never an error.
func (s *GormStore) QueryFeedback(_ context.Context, filter FeedbackFilter) ([]models.FeedbackRecord, error) {
	q := s.db.Order("created_at ASC")
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.FoodItemID != nil {
		q = q.Where("food_item_id = ?", *filter.FoodItemID)
	}

	var records []models.FeedbackRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	if err := s.resolveItemNames(records); err != nil {
		return nil, err
	}
	return records, nil
}

// resolveItemNames attaches each record's food item display name.
func (s *GormStore) resolveItemNames(records []models.FeedbackRecord) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(records))
	seen := make(map[uint]bool, len(records))
	for _, r := range records {
		if !seen[r.FoodItemID] {
			seen[r.FoodItemID] = true
			ids = append(ids, r.FoodItemID)
		}
	}

	var items []models.FoodItem
	if err := s.db.Where("id IN (?)", ids).Find(&items).Error; err != nil {
		return fmt.Errorf("resolving item names: %w", err)
	}

	names := make(map[uint]string, len(items))
	for _, item := range items {
		names[item.ID] = item.Name
	}
	for i := range records {
		records[i].FoodItemName = names[records[i].FoodItemID]
	}
	return nil
}

// CreateFeedback persists a new feedback record.
func (s *GormStore) CreateFeedback(_ context.Context, f *models.FeedbackRecord) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	if err := s.db.Create(f).Error; err != nil {
		return fmt.Errorf("creating feedback: %w", err)
	}
	return nil
}

// AttachReply sets the kitchen's reply on one feedback record and marks it
// resolved. This is the only mutation feedback ever receives.
func (s *GormStore) AttachReply(_ context.Context, feedbackID uint, reply string) (*models.FeedbackRecord, error) {
	var record models.FeedbackRecord
	if err := s.db.Where("id = ?", feedbackID).First(&record).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading feedback %d: %w", feedbackID, err)
	}

	now := time.Now()
	record.Reply = &reply
	record.RepliedAt = &now
	record.Resolved = true
	if err := s.db.Save(&record).Error; err != nil {
		return nil, fmt.Errorf("saving reply on feedback %d: %w", feedbackID, err)
	}
	return &record, nil
}

// QueryOrders returns orders matching the filter, oldest first, with items
// preloaded.
func (s *GormStore) QueryOrders(_ context.Context, filter OrderFilter) ([]models.Order, error) {
	q := s.db.Preload("Items").Order("created_at ASC")
	if filter.UserID != nil {
		q = q.Where("user_id = ?", *filter.UserID)
	}
	if filter.OpenOnly {
		q = q.Where("status IN (?)", []string{
			string(models.OrderStatusPending),
			string(models.OrderStatusPreparing),
			string(models.OrderStatusReady),
		})
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	return orders, nil
}

// CreateOrder persists a new order in pending state.
func (s *GormStore) CreateOrder(_ context.Context, o *models.Order) error {
	o.Status = string(models.OrderStatusPending)
	o.CreatedAt = time.Now()
	o.TotalAmount = o.Total()
	if err := s.db.Create(o).Error; err != nil {
		return fmt.Errorf("creating order: %w", err)
	}
	return nil
}

// GetOrder loads one order with its items.
func (s *GormStore) GetOrder(_ context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading order %d: %w", id, err)
	}
	return &order, nil
}

// UpdateOrderStatus moves an order along the status graph, rejecting
// illegal transitions.
func (s *GormStore) UpdateOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := models.ValidateTransition(models.OrderStatus(order.Status), status); err != nil {
		return nil, err
	}

	order.Status = string(status)
	if err := s.db.Model(&models.Order{}).Where("id = ?", id).Update("status", string(status)).Error; err != nil {
		return nil, fmt.Errorf("updating order %d status: %w", id, err)
	}
	return order, nil
}

// ListFoodItems returns the full menu.
func (s *GormStore) ListFoodItems(_ context.Context) ([]models.FoodItem, error) {
	var items []models.FoodItem
	if err := s.db.Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("listing food items: %w", err)
	}
	return items, nil
}

// GetFoodItem loads one menu item.
func (s *GormStore) GetFoodItem(_ context.Context, id uint) (*models.FoodItem, error) {
	var item models.FoodItem
	if err := s.db.Where("id = ?", id).First(&item).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading food item %d: %w", id, err)
	}
	return &item, nil
}
