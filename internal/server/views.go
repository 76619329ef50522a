package server

import (
	"time"

	"github.com/google/uuid"

	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
	"github.com/CelestynPark/PenArt-Reservation/internal/schedule"
)

// View types resolve i18n fields into the request language. Admin endpoints
// return the full i18n maps instead so the back office can edit both
// languages.

type serviceView struct {
	ID           uuid.UUID     `json:"id"`
	Code         string        `json:"code"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	DurationMin  int           `json:"duration_min"`
	Level        string        `json:"level"`
	Policy       domain.Policy `json:"policy"`
	Price        domain.Money  `json:"price"`
	Images       []string      `json:"images"`
	DisplayOrder int           `json:"display_order"`
}

func toServiceView(s domain.Service, lang string) serviceView {
	return serviceView{
		ID:           s.ID,
		Code:         s.Code,
		Name:         s.NameI18n.Resolve(lang),
		Description:  s.DescI18n.Resolve(lang),
		DurationMin:  s.DurationMin,
		Level:        s.Level,
		Policy:       s.Policy,
		Price:        s.Price,
		Images:       s.Images,
		DisplayOrder: s.DisplayOrder,
	}
}

func toServiceViews(in []domain.Service, lang string) []serviceView {
	out := make([]serviceView, len(in))
	for i, s := range in {
		out[i] = toServiceView(s, lang)
	}
	return out
}

type slotView struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

func toSlotViews(in []schedule.Slot) []slotView {
	out := make([]slotView, len(in))
	for i, s := range in {
		out[i] = slotView{StartAt: s.StartAt, EndAt: s.EndAt}
	}
	return out
}

type bookingView struct {
	ID             uuid.UUID             `json:"id"`
	Code           string                `json:"code"`
	ServiceID      uuid.UUID             `json:"service_id"`
	StartAt        time.Time             `json:"start_at"`
	EndAt          time.Time             `json:"end_at"`
	Status         domain.BookingStatus  `json:"status"`
	PolicySnapshot domain.Policy         `json:"policy_snapshot"`
	CustomerName   string                `json:"customer_name"`
	Memo           string                `json:"memo,omitempty"`
	RescheduledTo  *uuid.UUID            `json:"rescheduled_to,omitempty"`
	History        []domain.HistoryEntry `json:"history"`
	CreatedAt      time.Time             `json:"created_at"`
}

func toBookingView(b *domain.Booking) bookingView {
	return bookingView{
		ID:             b.ID,
		Code:           b.Code,
		ServiceID:      b.ServiceID,
		StartAt:        b.StartAt,
		EndAt:          b.EndAt,
		Status:         b.Status,
		PolicySnapshot: b.PolicySnapshot,
		CustomerName:   b.CustomerName,
		Memo:           b.Memo,
		RescheduledTo:  b.RescheduledTo,
		History:        b.History,
		CreatedAt:      b.CreatedAt,
	}
}

func toBookingViews(in []domain.Booking) []bookingView {
	out := make([]bookingView, len(in))
	for i := range in {
		out[i] = toBookingView(&in[i])
	}
	return out
}

type goodsView struct {
	ID          uuid.UUID          `json:"id"`
	Slug        string             `json:"slug"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       domain.Money       `json:"price"`
	InStock     bool               `json:"in_stock"`
	Status      domain.GoodsStatus `json:"status"`
	Images      []string           `json:"images"`
}

func toGoodsView(g domain.Goods, lang string) goodsView {
	return goodsView{
		ID:          g.ID,
		Slug:        g.Slug,
		Name:        g.NameI18n.Resolve(lang),
		Description: g.DescI18n.Resolve(lang),
		Price:       g.Price,
		InStock:     g.Stock > 0,
		Status:      g.Status,
		Images:      g.Images,
	}
}

func toGoodsViews(in []domain.Goods, lang string) []goodsView {
	out := make([]goodsView, len(in))
	for i, g := range in {
		out[i] = toGoodsView(g, lang)
	}
	return out
}

type orderView struct {
	ID            uuid.UUID             `json:"id"`
	Code          string                `json:"code"`
	GoodsID       uuid.UUID             `json:"goods_id"`
	GoodsName     string                `json:"goods_name"`
	UnitPrice     domain.Money          `json:"unit_price"`
	Quantity      int                   `json:"quantity"`
	Total         domain.Money          `json:"total"`
	Status        domain.OrderStatus    `json:"status"`
	Method        string                `json:"method"`
	Buyer         domain.Buyer          `json:"buyer"`
	Bank          domain.BankSnapshot   `json:"bank"`
	DepositorName string                `json:"depositor_name,omitempty"`
	ReceiptImage  string                `json:"receipt_image,omitempty"`
	Memo          string                `json:"memo,omitempty"`
	ExpiresAt     time.Time             `json:"expires_at"`
	History       []domain.HistoryEntry `json:"history"`
	CreatedAt     time.Time             `json:"created_at"`
}

func toOrderView(o *domain.Order, lang string) orderView {
	return orderView{
		ID:            o.ID,
		Code:          o.Code,
		GoodsID:       o.GoodsID,
		GoodsName:     o.GoodsSnapshot.NameI18n.Resolve(lang),
		UnitPrice:     o.GoodsSnapshot.UnitPrice,
		Quantity:      o.Quantity,
		Total:         o.Total,
		Status:        o.Status,
		Method:        o.Method,
		Buyer:         o.Buyer,
		Bank:          o.Bank,
		DepositorName: o.DepositorName,
		ReceiptImage:  o.ReceiptImage,
		Memo:          o.Memo,
		ExpiresAt:     o.ExpiresAt,
		History:       o.History,
		CreatedAt:     o.CreatedAt,
	}
}

func toOrderViews(in []domain.Order, lang string) []orderView {
	out := make([]orderView, len(in))
	for i := range in {
		out[i] = toOrderView(&in[i], lang)
	}
	return out
}

type workView struct {
	ID          uuid.UUID `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	Tags        []string  `json:"tags"`
}

func toWorkView(w domain.Work, lang string) workView {
	return workView{
		ID:          w.ID,
		Slug:        w.Slug,
		Title:       w.TitleI18n.Resolve(lang),
		Description: w.DescI18n.Resolve(lang),
		Images:      w.Images,
		Tags:        w.Tags,
	}
}

func toWorkViews(in []domain.Work, lang string) []workView {
	out := make([]workView, len(in))
	for i, w := range in {
		out[i] = toWorkView(w, lang)
	}
	return out
}

type newsView struct {
	ID          uuid.UUID  `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	Images      []string   `json:"images"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

func toNewsView(n domain.News, lang string) newsView {
	return newsView{
		ID:          n.ID,
		Slug:        n.Slug,
		Title:       n.TitleI18n.Resolve(lang),
		Body:        n.BodyI18n.Resolve(lang),
		Images:      n.Images,
		PublishedAt: n.PublishedAt,
	}
}

func toNewsViews(in []domain.News, lang string) []newsView {
	out := make([]newsView, len(in))
	for i, n := range in {
		out[i] = toNewsView(n, lang)
	}
	return out
}

type reviewView struct {
	ID        uuid.UUID           `json:"id"`
	ServiceID uuid.UUID           `json:"service_id"`
	Rating    int                 `json:"rating"`
	Body      string              `json:"body"`
	Images    []string            `json:"images"`
	Status    domain.ReviewStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

func toReviewView(r domain.Review) reviewView {
	return reviewView{
		ID:        r.ID,
		ServiceID: r.ServiceID,
		Rating:    r.Rating,
		Body:      r.Body,
		Images:    r.Images,
		Status:    r.Status,
		CreatedAt: r.CreatedAt,
	}
}

func toReviewViews(in []domain.Review) []reviewView {
	out := make([]reviewView, len(in))
	for i, r := range in {
		out[i] = toReviewView(r)
	}
	return out
}

type studioView struct {
	Name    string              `json:"name"`
	Bio     string              `json:"bio"`
	Address string              `json:"address"`
	MapURL  string              `json:"map_url"`
	Phone   string              `json:"phone"`
	Email   string              `json:"email"`
	SNS     map[string]string   `json:"sns"`
	Hours   string              `json:"hours"`
	Bank    domain.BankSnapshot `json:"bank"`
}

func toStudioView(s *domain.Studio, lang string) studioView {
	return studioView{
		Name:    s.NameI18n.Resolve(lang),
		Bio:     s.BioI18n.Resolve(lang),
		Address: s.Address,
		MapURL:  s.MapURL,
		Phone:   s.Phone,
		Email:   s.Email,
		SNS:     s.SNS,
		Hours:   s.Hours.Resolve(lang),
		Bank: domain.BankSnapshot{
			BankName:      s.Bank.BankName,
			AccountNumber: s.Bank.AccountNumber,
			Holder:        s.Bank.Holder,
		},
	}
}

type userView struct {
	ID       uuid.UUID           `json:"id"`
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	Phone    string              `json:"phone"`
	Role     domain.Role         `json:"role"`
	LangPref string              `json:"lang_pref"`
	Channels domain.ChannelPrefs `json:"channels"`
}

func toUserView(u *domain.User) userView {
	return userView{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
		LangPref: u.LangPref,
		Channels: u.Channels,
	}
}

func toUserViews(in []domain.User) []userView {
	out := make([]userView, len(in))
	for i := range in {
		out[i] = toUserView(&in[i])
	}
	return out
}
