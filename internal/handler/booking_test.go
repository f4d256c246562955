package handler_test

import (
    "context"
    "database/sql"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/labstack/echo/v4"

    "github.com/nexis-travel/bookit-server/internal/handler"
    "github.com/nexis-travel/bookit-server/internal/promo"
    "github.com/nexis-travel/bookit-server/internal/repository"
    "github.com/nexis-travel/bookit-server/internal/service"
)

type stubBookingSvc struct {
    createFn func(ctx context.Context, in *service.CreateBookingInput) (*service.BookingConfirmation, error)
    listFn   func(ctx context.Context, email string) ([]repository.BookingDetail, error)
}

func (s *stubBookingSvc) Create(ctx context.Context, in *service.CreateBookingInput) (*service.BookingConfirmation, error) {
    return s.createFn(ctx, in)
}

func (s *stubBookingSvc) ListByEmail(ctx context.Context, email string) ([]repository.BookingDetail, error) {
    return s.listFn(ctx, email)
}

func postJSON(t *testing.T, e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
    t.Helper()
    req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
    req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    rec := httptest.NewRecorder()
    return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
    t.Helper()
    var out map[string]any
    if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
        t.Fatalf("decode response: %v", err)
    }
    return out
}

const validBookingBody = `{
  "experienceId": 7,
  "slotId": 3,
  "userInfo": {"name": "Dana Reed", "email": "dana@example.com", "phone": "555-0101"},
  "participants": 2,
  "promoCode": "SUMMER10"
}`

func TestBookingCreateSuccess(t *testing.T) {
    code := "SUMMER10"
    svc := &stubBookingSvc{
        createFn: func(_ context.Context, in *service.CreateBookingInput) (*service.BookingConfirmation, error) {
            if in.ExperienceID != 7 || in.SlotID != 3 || in.Participants != 2 {
                t.Fatalf("unexpected input: %+v", in)
            }
            conf := &service.BookingConfirmation{
                ID:               42,
                BookingReference: "BK-0011223344",
                UserInfo:         in.UserInfo,
                Participants:     in.Participants,
                TotalPrice:       200,
                DiscountApplied:  20,
                FinalPrice:       180,
                PromoCode:        &code,
                Status:           "CONFIRMED",
            }
            conf.Experience.ID = 7
            conf.Experience.Title = "Sunset Kayaking"
            return conf, nil
        },
    }
    h := handler.NewBookingHandler(svc)

    c, rec := postJSON(t, echo.New(), "/v1/bookings", validBookingBody)
    if err := h.Create(c); err != nil {
        t.Fatalf("handler error: %v", err)
    }
    if rec.Code != http.StatusCreated {
        t.Fatalf("status = %d, want 201", rec.Code)
    }
    body := decodeBody(t, rec)
    if body["success"] != true {
        t.Fatalf("success = %v, want true", body["success"])
    }
    booking, ok := body["booking"].(map[string]any)
    if !ok {
        t.Fatalf("booking missing from response: %v", body)
    }
    if booking["bookingReference"] != "BK-0011223344" {
        t.Errorf("bookingReference = %v", booking["bookingReference"])
    }
    if booking["finalPrice"] != float64(180) {
        t.Errorf("finalPrice = %v, want 180", booking["finalPrice"])
    }
}

func TestBookingCreateErrorMapping(t *testing.T) {
    cases := []struct {
        name       string
        err        error
        wantStatus int
        wantError  string
    }{
        {"validation", &service.ValidationError{Field: "participants", Message: "participants must be at least 1"},
            http.StatusBadRequest, "participants must be at least 1"},
        {"experience not found", repository.ErrExperienceNotFound, http.StatusNotFound, "experience not found"},
        {"slot not found", repository.ErrSlotNotFound, http.StatusNotFound, "slot not found"},
        {"experience inactive", repository.ErrExperienceInactive, http.StatusGone, "experience is no longer active"},
        {"slot unavailable", repository.ErrSlotUnavailable, http.StatusGone, "slot is no longer available"},
        {"capacity", repository.ErrCapacityExceeded, http.StatusBadRequest, "not enough spots available"},
        {"promo invalid", promo.ErrInvalidCode, http.StatusBadRequest, "Invalid promo code"},
        {"promo exhausted", promo.LimitReached(), http.StatusBadRequest, "Promo code usage limit reached"},
        {"infrastructure", sql.ErrConnDone, http.StatusInternalServerError, "booking failed"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            svc := &stubBookingSvc{
                createFn: func(context.Context, *service.CreateBookingInput) (*service.BookingConfirmation, error) {
                    return nil, tc.err
                },
            }
            h := handler.NewBookingHandler(svc)
            c, rec := postJSON(t, echo.New(), "/v1/bookings", validBookingBody)
            if err := h.Create(c); err != nil {
                t.Fatalf("handler error: %v", err)
            }
            if rec.Code != tc.wantStatus {
                t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
            }
            body := decodeBody(t, rec)
            if body["success"] != false {
                t.Errorf("success = %v, want false", body["success"])
            }
            if body["error"] != tc.wantError {
                t.Errorf("error = %q, want %q", body["error"], tc.wantError)
            }
        })
    }
}

func TestBookingListRequiresEmail(t *testing.T) {
    h := handler.NewBookingHandler(&stubBookingSvc{
        listFn: func(context.Context, string) ([]repository.BookingDetail, error) {
            t.Fatal("service must not be called without an email")
            return nil, nil
        },
    })
    req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
    rec := httptest.NewRecorder()
    c := echo.New().NewContext(req, rec)
    if err := h.List(c); err != nil {
        t.Fatalf("handler error: %v", err)
    }
    if rec.Code != http.StatusBadRequest {
        t.Fatalf("status = %d, want 400", rec.Code)
    }
}

func TestBookingListUnknownUser(t *testing.T) {
    h := handler.NewBookingHandler(&stubBookingSvc{
        listFn: func(context.Context, string) ([]repository.BookingDetail, error) {
            return nil, sql.ErrNoRows
        },
    })
    req := httptest.NewRequest(http.MethodGet, "/v1/bookings?email=nobody@example.com", nil)
    rec := httptest.NewRecorder()
    c := echo.New().NewContext(req, rec)
    if err := h.List(c); err != nil {
        t.Fatalf("handler error: %v", err)
    }
    if rec.Code != http.StatusNotFound {
        t.Fatalf("status = %d, want 404", rec.Code)
    }
}

func TestBookingListEmpty(t *testing.T) {
    h := handler.NewBookingHandler(&stubBookingSvc{
        listFn: func(_ context.Context, email string) ([]repository.BookingDetail, error) {
            if email != "dana@example.com" {
                t.Fatalf("email = %q", email)
            }
            return []repository.BookingDetail{}, nil
        },
    })
    req := httptest.NewRequest(http.MethodGet, "/v1/bookings?email=dana@example.com", nil)
    rec := httptest.NewRecorder()
    c := echo.New().NewContext(req, rec)
    if err := h.List(c); err != nil {
        t.Fatalf("handler error: %v", err)
    }
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d, want 200", rec.Code)
    }
    body := decodeBody(t, rec)
    list, ok := body["bookings"].([]any)
    if !ok {
        t.Fatalf("bookings missing or not a list: %v", body)
    }
    if len(list) != 0 {
        t.Errorf("bookings = %v, want empty", list)
    }
}
