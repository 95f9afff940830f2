package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/SaisandeepKv/vernon-clinic-sub000/analysis"
	"github.com/SaisandeepKv/vernon-clinic-sub000/booking"
)

type BookFlags struct {
	Client *ClientFlags
	booking.Request
	Location string
}

func NewBookFlags() *BookFlags {
	return &BookFlags{Client: NewClientFlags()}
}

func (f *BookFlags) BindFlags(fs *pflag.FlagSet) {
	f.Client.BindFlags(fs)
	fs.StringVar(&f.PatientName, "name", f.PatientName, "Patient name")
	fs.StringVar(&f.Phone, "phone", f.Phone, "Phone number, at least 10 digits")
	fs.StringVar(&f.Treatment, "treatment", f.Treatment, "Treatment (default: General consultation)")
	fs.StringVar(&f.Location, "location", f.Location, "Branch: Banjara Hills, Jubilee Hills or Gachibowli")
	fs.StringVar(&f.PreferredDate, "date", f.PreferredDate, "Preferred date")
	fs.StringVar(&f.PreferredTime, "time", f.PreferredTime, "Preferred time")
	fs.StringVar(&f.Notes, "notes", f.Notes, "Anything the clinic should know")
}

func NewBookCommand() *cobra.Command {
	f := NewBookFlags()

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Submit the appointment booking form",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := f.Request
			req.Location = bookingLocation(f.Location)
			// 서버와 같은 규칙으로 먼저 검증한다.
			if err := req.Validate(); err != nil {
				return err
			}
			sid, err := f.Client.session()
			if err != nil {
				return err
			}
			details, msg, err := f.Client.Client().Book(cmd.Context(), req, sid)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			printDetails(cmd.OutOrStdout(), details)
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	cmd.MarkFlagRequired("name")     //nolint:errcheck
	cmd.MarkFlagRequired("phone")    //nolint:errcheck
	cmd.MarkFlagRequired("location") //nolint:errcheck
	return cmd
}

func NewCallbackCommand() *cobra.Command {
	client := NewClientFlags()
	var lead booking.Lead

	cmd := &cobra.Command{
		Use:   "callback",
		Short: "Ask the clinic to call you back",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := lead.Validate(); err != nil {
				return err
			}
			sid, err := client.session()
			if err != nil {
				return err
			}
			msg, err := client.Client().Callback(cmd.Context(), lead, sid)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	client.BindFlags(cmd.Flags())
	cmd.Flags().StringVar(&lead.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&lead.Phone, "phone", "", "Phone number, at least 10 digits")
	cmd.MarkFlagRequired("name")  //nolint:errcheck
	cmd.MarkFlagRequired("phone") //nolint:errcheck
	return cmd
}

// bookingLocation canonicalises a branch name; unknown input is passed
// through so validation reports it.
func bookingLocation(s string) booking.Location {
	if loc, ok := booking.ParseLocation(s); ok {
		return loc
	}
	return booking.Location(s)
}

func printDetails(w io.Writer, d *booking.Details) {
	if d == nil {
		return
	}
	fmt.Fprintf(w, "  Name:      %s\n", d.Name)
	fmt.Fprintf(w, "  Phone:     %s\n", d.Phone)
	fmt.Fprintf(w, "  Treatment: %s\n", d.Treatment)
	fmt.Fprintf(w, "  Branch:    %s\n", d.Location)
	fmt.Fprintf(w, "  Date/Time: %s / %s\n", d.Date, d.Time)
}

func printReport(w io.Writer, r *analysis.Report) {
	fmt.Fprintf(w, "Skin score: %d/100\n%s\n", r.OverallScore, r.Summary)
	if r.SkinType != "" {
		fmt.Fprintf(w, "Skin type: %s\n", r.SkinType)
	}
	for _, s := range r.Strengths {
		fmt.Fprintf(w, "  + %s\n", s)
	}
	for _, c := range r.Concerns {
		fmt.Fprintf(w, "  - [%s] %s (%s): %s\n", c.Severity, c.Name, c.Area, c.Description)
	}
	if h := r.HairAnalysis; h != nil {
		fmt.Fprintf(w, "Hair: %s, scalp %s, density %s, stage %s\n", h.HairType, h.ScalpCondition, h.HairDensity, h.HairLossStage)
	}
	if len(r.RecommendedTreatments) > 0 {
		fmt.Fprintf(w, "Suggested treatments to discuss: %v\n", r.RecommendedTreatments)
	}
	if r.PersonalizedMessage != "" {
		fmt.Fprintln(w, r.PersonalizedMessage)
	}
	fmt.Fprintln(w, analysis.Disclaimer)
}
