package tools

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
	"github.com/SaisandeepKv/vernon-clinic-sub000/content"
	"github.com/SaisandeepKv/vernon-clinic-sub000/outbox"
)

type recordingOutbox struct {
	entries []outbox.Entry
}

func (r *recordingOutbox) Dispatch(_ context.Context, e outbox.Entry) {
	r.entries = append(r.entries, e)
}

func newTestRegistry() (*Registry, *recordingOutbox) {
	ob := &recordingOutbox{}
	return NewRegistry(content.NewStore(), ob), ob
}

func run(t *testing.T, r *Registry, name Name, args string) Output {
	t.Helper()
	call, err := Decode(name, json.RawMessage(args))
	require.NoError(t, err)
	return r.Execute(context.Background(), call)
}

func asJSON(t *testing.T, v any) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func TestEstimateCost_Botox(t *testing.T) {
	r, _ := newTestRegistry()

	out := run(t, r, EstimateCost, `{"treatmentId":"botox"}`)
	require.True(t, out.Succeeded())

	got := asJSON(t, out)
	assert.Equal(t, true, got["found"])
	assert.Equal(t, true, got["freeConsultation"])
	assert.Equal(t, map[string]any{"min": "₹8,000", "max": "₹25,000", "unit": "per area"}, got["priceRange"])
}

func TestEstimateCost_Unknown(t *testing.T) {
	r, _ := newTestRegistry()

	out := run(t, r, EstimateCost, `{"treatmentId":"tattoo removal"}`).(EstimateCostOutput)
	assert.False(t, out.Found)
	assert.Contains(t, out.AvailableTreatments, "botox")
	assert.Nil(t, out.PriceRange)
}

func TestBookAppointment_RejectsInvalidContact(t *testing.T) {
	r, ob := newTestRegistry()

	out := run(t, r, BookAppointment,
		`{"patientName":"A","phone":"12345","location":"Banjara Hills","treatment":"Botox"}`)

	got := asJSON(t, out)
	assert.Equal(t, false, got["success"])
	assert.Contains(t, got["message"], "name")
	assert.Contains(t, got["message"], "phone")
	assert.NotContains(t, got, "bookingDetails")
	assert.Empty(t, ob.entries, "invalid bookings never reach the sinks")
}

func TestBookAppointment_RejectionLaw(t *testing.T) {
	r, ob := newTestRegistry()

	cases := []struct{ name, phone string }{
		{"A", "9876543210"},
		{"  B ", "9876543210"},
		{"Ravi Kumar", "98765"},
		{"Ravi Kumar", "+91-98765"},
		{"", ""},
	}
	for _, c := range cases {
		args, _ := json.Marshal(map[string]string{
			"patientName": c.name,
			"phone":       c.phone,
			"location":    "Gachibowli",
			"treatment":   "Hydrafacial",
			"notes":       "any extra fields do not matter",
		})
		out := run(t, r, BookAppointment, string(args)).(BookAppointmentOutput)
		assert.False(t, out.Success, "%+v", c)
		assert.NotEmpty(t, out.Message)
	}
	assert.Empty(t, ob.entries)
}

func TestBookAppointment_Success(t *testing.T) {
	r, ob := newTestRegistry()
	ctx := WithSession(context.Background(), "sess-42")

	call, err := Decode(BookAppointment, json.RawMessage(
		`{"patientName":"Ravi Kumar","phone":"9876543210","location":"Gachibowli","treatment":"Hair Transplant"}`))
	require.NoError(t, err)
	out := r.Execute(ctx, call).(BookAppointmentOutput)

	require.True(t, out.Success)
	assert.Equal(t, &booking.Details{
		Name:      "Ravi Kumar",
		Phone:     "9876543210",
		Treatment: "Hair Transplant",
		Location:  "Gachibowli",
		Date:      "To be confirmed",
		Time:      "To be confirmed",
	}, out.BookingDetails)
	assert.Contains(t, out.Message, "30 minutes")

	require.Len(t, ob.entries, 1)
	e := ob.entries[0]
	assert.Equal(t, outbox.KindBooking, e.Kind)
	assert.Equal(t, outbox.SourceChatbot, e.Source)
	assert.Equal(t, "sess-42", e.SessionID)
	assert.Equal(t, booking.Gachibowli, e.Booking.Location)
}

func TestBookAppointment_DefaultsTreatment(t *testing.T) {
	r, _ := newTestRegistry()
	out := run(t, r, BookAppointment, `{"patientName":"Asha","phone":"9123456780","location":"jubilee-hills"}`).(BookAppointmentOutput)
	require.True(t, out.Success)
	assert.Equal(t, "General consultation", out.BookingDetails.Treatment)
	assert.Equal(t, "Jubilee Hills", out.BookingDetails.Location)
}

func TestSearchTreatments(t *testing.T) {
	r, _ := newTestRegistry()

	out := run(t, r, SearchTreatments, `{"query":"nonexistent-condition-xyz"}`).(SearchTreatmentsOutput)
	assert.False(t, out.Found)
	assert.NotEmpty(t, out.Message)
	assert.Equal(t, content.NewStore().CategoryNames(), out.AvailableCategories)

	out = run(t, r, SearchTreatments, `{"query":"skin hair laser acne"}`).(SearchTreatmentsOutput)
	assert.True(t, out.Found)
	assert.Len(t, out.Treatments, MaxTreatmentResults)
}

func TestRecommendTreatment(t *testing.T) {
	r, _ := newTestRegistry()

	out := run(t, r, RecommendTreatment, `{"concern":"acne"}`).(RecommendTreatmentOutput)
	require.True(t, out.Found)
	require.NotEmpty(t, out.Recommendations)
	assert.LessOrEqual(t, len(out.Recommendations), MaxRecommendations)
	assert.Equal(t, "Acne Treatment", out.Recommendations[0].Name)

	miss := run(t, r, RecommendTreatment, `{"concern":"nonexistent-condition-xyz"}`).(RecommendTreatmentOutput)
	assert.False(t, miss.Found)
	assert.Contains(t, miss.Suggestion, "consultation")
}

func TestFindRelatedVideos(t *testing.T) {
	r, _ := newTestRegistry()

	out := run(t, r, FindRelatedVideos, `{"topic":"hair"}`).(FindRelatedVideosOutput)
	assert.True(t, out.Found)
	assert.LessOrEqual(t, len(out.Videos), MaxVideoResults)

	miss := run(t, r, FindRelatedVideos, `{"topic":"tattoo"}`).(FindRelatedVideosOutput)
	assert.False(t, miss.Found)
	assert.Equal(t, content.ChannelURL, miss.ChannelURL)
}

func TestGetClinicInfo(t *testing.T) {
	r, _ := newTestRegistry()

	tests := []struct {
		query     string
		locations int
		doctors   int
		hours     int
	}{
		{"all-locations", 3, 0, 0},
		{"banjara-hills", 1, 0, 0},
		{"doctors", 0, 3, 0},
		{"hours", 0, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			out := run(t, r, GetClinicInfo, `{"query":"`+tt.query+`"}`).(GetClinicInfoOutput)
			assert.True(t, out.Found)
			assert.Len(t, out.Locations, tt.locations)
			assert.Len(t, out.Doctors, tt.doctors)
			assert.Len(t, out.Hours, tt.hours)
		})
	}
}

func TestSearchBlogContent_PreviewCapped(t *testing.T) {
	r, _ := newTestRegistry()

	out := run(t, r, SearchBlogContent, `{"query":"laser"}`).(SearchBlogContentOutput)
	require.True(t, out.Found)
	for _, p := range out.Posts {
		assert.LessOrEqual(t, len([]rune(p.ContentPreview)), BlogPreviewLength)
		assert.NotContains(t, p.ContentPreview, "<")
	}

	miss := run(t, r, SearchBlogContent, `{"query":"nonexistent-condition-xyz"}`).(SearchBlogContentOutput)
	assert.False(t, miss.Found)
}

func TestGenerateWhatsAppLink(t *testing.T) {
	r, _ := newTestRegistry()

	out := run(t, r, GenerateWhatsAppLink, `{"summary":"Acne & scars query","location":"Gachibowli"}`).(GenerateWhatsAppLinkOutput)
	require.True(t, out.Success)
	assert.Equal(t, "919100033333", out.PhoneNumber)
	assert.True(t, strings.HasPrefix(out.URL, "https://wa.me/919100033333?text="))
	assert.NotContains(t, out.URL, " ")
	assert.NotContains(t, out.URL, "+")

	u, err := url.Parse(out.URL)
	require.NoError(t, err)
	assert.Equal(t, "Hi Vernon Skin Clinic! Acne & scars query (Gachibowli branch)", u.Query().Get("text"))

	def := run(t, r, GenerateWhatsAppLink, `{"summary":"hello"}`).(GenerateWhatsAppLinkOutput)
	assert.Equal(t, content.PrimaryWhatsApp, def.PhoneNumber)
}

func TestDecode_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name Name
		args string
	}{
		{SearchTreatments, `{}`},
		{SearchTreatments, `{"query":""}`},
		{RecommendTreatment, `{"concern":"a"}`},
		{GetClinicInfo, `{"query":"parking"}`},
		{BookAppointment, `{"patientName":"Ravi","phone":"9876543210","location":"Madhapur"}`},
		{FindRelatedVideos, `{"topic":"acne","language":"french"}`},
		{GenerateWhatsAppLink, `{"summary":"hi","location":"nowhere"}`},
		{EstimateCost, `not json`},
	}
	for _, tt := range tests {
		t.Run(string(tt.name)+"/"+tt.args, func(t *testing.T) {
			_, err := Decode(tt.name, json.RawMessage(tt.args))
			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr), "got %v", err)
			assert.Equal(t, tt.name, inputErr.Tool)
		})
	}
}

func TestDecode_UnknownTool(t *testing.T) {
	_, err := Decode("deleteAllRecords", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrUnknownTool)
}

func TestDefinitions_CoverEveryTool(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, len(Names))
	for i, d := range defs {
		assert.Equal(t, Names[i], d.Name)
		assert.NotEmpty(t, d.Description)
		require.NotNil(t, d.Parameters)
		assert.Equal(t, "object", d.Parameters.Type)
		for _, req := range d.Parameters.Required {
			assert.Contains(t, d.Parameters.Properties, req)
		}
	}

	book := Define(BookAppointment)
	assert.Equal(t, int64(2), *book.Parameters.Properties["patientName"].MinLength)
	assert.Equal(t, booking.LocationNames(), book.Parameters.Properties["location"].Enum)
}
