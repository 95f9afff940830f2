package dto

import "github.com/SaisandeepKv/vernon-clinic-sub000/booking"

// 폼 DTO 의 name/phone/location 태그는 booking.RegisterValidations 가 등록한다.
type BookingRequestDTO struct {
	PatientName   string `json:"patientName" binding:"name" example:"Ravi Kumar"`
	Phone         string `json:"phone" binding:"phone" example:"9876543210"`
	Treatment     string `json:"treatment" example:"Hair Transplant"`
	Location      string `json:"location" binding:"location" example:"Gachibowli"`
	PreferredDate string `json:"preferredDate,omitempty" example:"2026-11-02"`
	PreferredTime string `json:"preferredTime,omitempty" example:"11:00 AM"`
	Notes         string `json:"notes,omitempty"`
	SessionID     string `json:"sessionId,omitempty"`
}

func (d BookingRequestDTO) Request() booking.Request {
	return booking.Request{
		PatientName:   d.PatientName,
		Phone:         d.Phone,
		Treatment:     d.Treatment,
		Location:      booking.Location(d.Location),
		PreferredDate: d.PreferredDate,
		PreferredTime: d.PreferredTime,
		Notes:         d.Notes,
	}
}

type BookingResponseDTO struct {
	Success        bool             `json:"success"`
	Message        string           `json:"message,omitempty"`
	BookingDetails *booking.Details `json:"bookingDetails,omitempty"`
	Error          string           `json:"error,omitempty"`
}

type CallbackRequestDTO struct {
	Name      string `json:"name" binding:"name" example:"Priya"`
	Phone     string `json:"phone" binding:"phone" example:"+91 99887 76655"`
	SessionID string `json:"sessionId,omitempty"`
}

type CallbackResponseDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
