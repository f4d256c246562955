package service_test

import (
    "testing"

    "github.com/nexis-travel/bookit-server/internal/service"
)

func validInput() *service.CreateBookingInput {
    return &service.CreateBookingInput{
        ExperienceID: 7,
        SlotID:       3,
        UserInfo: service.ContactInfo{
            Name:  "Dana Reed",
            Email: "dana@example.com",
            Phone: "555-0101",
        },
        Participants: 2,
    }
}

func TestValidateCreateBookingAccepts(t *testing.T) {
    if err := service.ValidateCreateBooking(validInput()); err != nil {
        t.Fatalf("valid input rejected: %v", err)
    }
}

func TestValidateCreateBookingRejects(t *testing.T) {
    cases := []struct {
        name      string
        mutate    func(*service.CreateBookingInput)
        wantField string
    }{
        {"missing experienceId", func(in *service.CreateBookingInput) { in.ExperienceID = 0 }, "experienceId"},
        {"missing slotId", func(in *service.CreateBookingInput) { in.SlotID = 0 }, "slotId"},
        {"missing name", func(in *service.CreateBookingInput) { in.UserInfo.Name = "" }, "userInfo.name"},
        {"missing email", func(in *service.CreateBookingInput) { in.UserInfo.Email = "" }, "userInfo.email"},
        {"malformed email", func(in *service.CreateBookingInput) { in.UserInfo.Email = "dana@nodomain" }, "userInfo.email"},
        {"email with spaces", func(in *service.CreateBookingInput) { in.UserInfo.Email = "da na@example.com" }, "userInfo.email"},
        {"missing phone", func(in *service.CreateBookingInput) { in.UserInfo.Phone = "" }, "userInfo.phone"},
        {"zero participants", func(in *service.CreateBookingInput) { in.Participants = 0 }, "participants"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            in := validInput()
            tc.mutate(in)
            err := service.ValidateCreateBooking(in)
            if err == nil {
                t.Fatal("expected a validation error")
            }
            if err.Field != tc.wantField {
                t.Errorf("field = %q, want %q", err.Field, tc.wantField)
            }
            if err.Message == "" {
                t.Error("message must not be empty")
            }
        })
    }
}
