package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/01moynul/herbal-storefront/internal/auth"
	"github.com/01moynul/herbal-storefront/internal/cart"
	"github.com/01moynul/herbal-storefront/internal/models"
	"github.com/01moynul/herbal-storefront/internal/orders"
	"github.com/01moynul/herbal-storefront/internal/shipping"
	"github.com/01moynul/herbal-storefront/internal/store"
)

// The interfaces below list exactly what the handlers call, so tests can
// swap any store or service for a mock.

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, role models.Role, limit, offset int) ([]models.User, error)
}

type AddressStore interface {
	Create(ctx context.Context, a *models.Address) error
	ListByUser(ctx context.Context, userID int64) ([]models.Address, error)
	Delete(ctx context.Context, userID, id int64) error
}

type ProductStore interface {
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, id int64, patch models.ProductPatch) error
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	List(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error)
	GetMany(ctx context.Context, ids []int64) (map[int64]models.Product, error)
}

type CategoryStore interface {
	Create(ctx context.Context, c *models.Category) error
	Update(ctx context.Context, id int64, patch store.CategoryPatch) (*models.Category, error)
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

type LocationStore interface {
	Create(ctx context.Context, l *models.Location) error
	Update(ctx context.Context, l *models.Location) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Location, error)
	GetByPostcode(ctx context.Context, postcode string) (*models.Location, error)
	List(ctx context.Context) ([]models.Location, error)
}

type SettingStore interface {
	All(ctx context.Context) ([]models.Setting, error)
	Upsert(ctx context.Context, values map[string]string) error
}

type NotificationStore interface {
	Latest(ctx context.Context, recipient string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}

type ReportStore interface {
	Sales(ctx context.Context, from, to time.Time, bucket models.ReportBucket) ([]models.SalesPoint, error)
}

type OrderService interface {
	PlaceOrder(ctx context.Context, in orders.PlaceOrderInput) (*models.Order, error)
	Get(ctx context.Context, orderID int64) (*models.Order, error)
	GetForUser(ctx context.Context, userID, orderID int64) (*models.Order, error)
	List(ctx context.Context, f store.OrderFilter) ([]models.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, requested string) (*models.Order, error)
}

type ShippingService interface {
	CreateShipment(ctx context.Context, orderID int64) (*models.Shipment, error)
	SyncTracking(ctx context.Context, orderID int64) (*shipping.SyncResult, error)
}

type Copywriter interface {
	ProductDescription(ctx context.Context, p *models.Product, category, notes string) (string, int, error)
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Users         UserStore
	Addresses     AddressStore
	Products      ProductStore
	Categories    CategoryStore
	Locations     LocationStore
	Settings      SettingStore
	Notifications NotificationStore
	Reports       ReportStore

	Orders   OrderService
	Shipping ShippingService
	Cart     cart.Store
	Tokens   *auth.TokenIssuer

	// Copywriter is nil when no Gemini key is configured.
	Copywriter Copywriter

	Logger        *slog.Logger
	CookieSecure  bool
	UploadDir     string
	PublicBaseURL string
}
