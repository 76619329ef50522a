package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/CelestynPark/PenArt-Reservation/internal/config"
	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
	"github.com/CelestynPark/PenArt-Reservation/internal/schedule"
)

// SlotCache abstracts the Redis-backed availability cache so unit tests can
// swap it for a pass-through.
type SlotCache interface {
	GetOrCompute(ctx context.Context, serviceID uuid.UUID, date string, compute func(context.Context) ([]schedule.Slot, error)) ([]schedule.Slot, error)
	Invalidate(ctx context.Context, serviceID uuid.UUID, date string) error
}

// Mailer delivers magic-link mails. The default implementation only logs the
// link; a real SMTP or provider client plugs in behind this interface.
type Mailer interface {
	SendMagicLink(ctx context.Context, email, link string) error
}

// Deps bundles everything the application service needs.
type Deps struct {
	Config       config.Config
	Users        domain.UserRepository
	Services     domain.ServiceRepository
	Bookings     domain.BookingRepository
	Goods        domain.GoodsRepository
	Orders       domain.OrderRepository
	Works        domain.WorkRepository
	News         domain.NewsRepository
	Reviews      domain.ReviewRepository
	Studio       domain.StudioRepository
	Availability domain.AvailabilityRepository
	Tokens       domain.AuthTokenRepository
	Audit        domain.AuditRepository
	Rollups      domain.MetricsRepository
	Sessions     domain.SessionStore
	SlotCache    SlotCache
	Mailer       Mailer
	Engine       *schedule.Engine
	Clock        clockwork.Clock
}

// Service orchestrates all use cases.
type Service struct {
	cfg          config.Config
	users        domain.UserRepository
	services     domain.ServiceRepository
	bookings     domain.BookingRepository
	goods        domain.GoodsRepository
	orders       domain.OrderRepository
	works        domain.WorkRepository
	news         domain.NewsRepository
	reviews      domain.ReviewRepository
	studio       domain.StudioRepository
	availability domain.AvailabilityRepository
	tokens       domain.AuthTokenRepository
	audit        domain.AuditRepository
	rollups      domain.MetricsRepository
	sessions     domain.SessionStore
	slotCache    SlotCache
	mailer       Mailer
	engine       *schedule.Engine
	clock        clockwork.Clock
}

func NewService(d Deps) *Service {
	if d.Engine == nil {
		d.Engine = schedule.NewEngine(schedule.Seoul)
	}
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	if d.Mailer == nil {
		d.Mailer = LogMailer{}
	}
	return &Service{
		cfg:          d.Config,
		users:        d.Users,
		services:     d.Services,
		bookings:     d.Bookings,
		goods:        d.Goods,
		orders:       d.Orders,
		works:        d.Works,
		news:         d.News,
		reviews:      d.Reviews,
		studio:       d.Studio,
		availability: d.Availability,
		tokens:       d.Tokens,
		audit:        d.Audit,
		rollups:      d.Rollups,
		sessions:     d.Sessions,
		slotCache:    d.SlotCache,
		mailer:       d.Mailer,
		engine:       d.Engine,
		clock:        d.Clock,
	}
}

// recordAudit appends to the audit trail. Failures are returned to the caller
// for admin mutations so the trail never silently drops entries.
func (s *Service) recordAudit(ctx context.Context, actorID *uuid.UUID, action, targetType, targetID string, detail map[string]any) error {
	return s.audit.Append(ctx, &domain.AuditEntry{
		ActorID:    actorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Detail:     detail,
	})
}
