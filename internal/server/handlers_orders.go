package server

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/CelestynPark/PenArt-Reservation/internal/app"
	"github.com/CelestynPark/PenArt-Reservation/internal/domain"
	apperrors "github.com/CelestynPark/PenArt-Reservation/internal/errors"
)

type createOrderRequest struct {
	GoodsID  string       `json:"goods_id"`
	Quantity int          `json:"quantity"`
	Buyer    domain.Buyer `json:"buyer"`
	Memo     string       `json:"memo"`
}

func (s *Server) handleCreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	goodsID, err := parseUUIDField(req.GoodsID, "goods_id")
	if err != nil {
		return err
	}

	var customerID *uuid.UUID
	if u := currentUser(c); u != nil {
		customerID = &u.ID
	}

	return s.idempotent(c, "order", func() (any, int, error) {
		o, err := s.app.CreateOrder(c.Request().Context(), app.CreateOrderInput{
			CustomerID: customerID,
			GoodsID:    goodsID,
			Quantity:   req.Quantity,
			Buyer:      req.Buyer,
			Memo:       req.Memo,
		})
		if err != nil {
			return nil, 0, mapErr(err)
		}
		return toOrderView(o, requestLang(c)), 201, nil
	})
}

func (s *Server) handleGetOrder(c echo.Context) error {
	orderID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	o, err := s.app.GetOrder(c.Request().Context(), orderID, currentUser(c))
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toOrderView(o, requestLang(c)))
}

// handleLookupOrder is the guest path: orders placed without an account are
// retrieved by their human code plus the buyer's phone number.
func (s *Server) handleLookupOrder(c echo.Context) error {
	code := c.Param("code")
	if code == "" {
		return apperrors.Validation("order code is required")
	}
	phone := c.QueryParam("phone")
	if phone == "" {
		return apperrors.Validation("phone is required")
	}
	o, err := s.app.GetOrderByCode(c.Request().Context(), code)
	if err != nil {
		return mapErr(err)
	}
	if normalizePhone(o.Buyer.Phone) != normalizePhone(phone) {
		return apperrors.NotFound("order not found")
	}
	return ok(c, 200, toOrderView(o, requestLang(c)))
}

func normalizePhone(p string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, p)
}

type submitDepositRequest struct {
	DepositorName string `json:"depositor_name"`
}

func (s *Server) handleSubmitDeposit(c echo.Context) error {
	orderID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req submitDepositRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	o, err := s.app.SubmitDeposit(c.Request().Context(), orderID, currentUser(c), req.DepositorName)
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toOrderView(o, requestLang(c)))
}

type attachReceiptRequest struct {
	ReceiptImage string `json:"receipt_image"`
}

func (s *Server) handleAttachReceipt(c echo.Context) error {
	orderID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req attachReceiptRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	o, err := s.app.AttachOrderReceipt(c.Request().Context(), orderID, currentUser(c), req.ReceiptImage)
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toOrderView(o, requestLang(c)))
}

func (s *Server) handleCancelOrder(c echo.Context) error {
	orderID, err := paramUUID(c, "id")
	if err != nil {
		return err
	}
	var req cancelRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	o, err := s.app.CancelOrder(c.Request().Context(), orderID, currentUser(c), req.Reason)
	if err != nil {
		return mapErr(err)
	}
	return ok(c, 200, toOrderView(o, requestLang(c)))
}
