package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/SaisandeepKv/vernon-clinic-sub000/widget"
)

type AnalyzeFlags struct {
	Client   *ClientFlags
	Photo    string
	Name     string
	Phone    string
	Camera   bool
	Book     bool
	Location string
}

func NewAnalyzeFlags() *AnalyzeFlags {
	return &AnalyzeFlags{Client: NewClientFlags()}
}

func (f *AnalyzeFlags) BindFlags(fs *pflag.FlagSet) {
	f.Client.BindFlags(fs)
	fs.StringVar(&f.Photo, "photo", f.Photo, "Photo file (JPEG, PNG, WebP or HEIC)")
	fs.StringVar(&f.Name, "name", f.Name, "Your name")
	fs.StringVar(&f.Phone, "phone", f.Phone, "Phone number, at least 10 digits")
	fs.BoolVar(&f.Camera, "camera", f.Camera, "Mark the photo as taken with the camera")
	fs.BoolVar(&f.Book, "book", f.Book, "Book a follow-up consultation after a successful analysis")
	fs.StringVar(&f.Location, "location", f.Location, "Branch for the follow-up booking")
}

func NewAnalyzeCommand() *cobra.Command {
	f := NewAnalyzeFlags()

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Get an AI skin/hair check of a photo",
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := f.Client.session()
			if err != nil {
				return err
			}
			api := f.Client.Client()
			flow := widget.NewCaptureFlow(api, sid)

			if err := flow.Open(); err != nil {
				return err
			}
			if err := flow.SubmitLead(f.Name, f.Phone); err != nil {
				return err
			}
			src := widget.SourceGallery
			if f.Camera {
				src = widget.SourceCamera
			}
			if err := flow.PickSource(src); err != nil {
				return err
			}
			data, err := os.ReadFile(f.Photo)
			if err != nil {
				return err
			}
			report, err := flow.Upload(cmd.Context(), data)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
			printReport(cmd.OutOrStdout(), report)

			if !f.Book {
				return nil
			}
			req, err := flow.BookingPrefill()
			if err != nil {
				return err
			}
			req.Location = bookingLocation(f.Location)
			if err := req.Validate(); err != nil {
				return err
			}
			details, msg, err := api.Book(cmd.Context(), req, sid)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			printDetails(cmd.OutOrStdout(), details)
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	cmd.MarkFlagRequired("photo") //nolint:errcheck
	cmd.MarkFlagRequired("name")  //nolint:errcheck
	cmd.MarkFlagRequired("phone") //nolint:errcheck
	return cmd
}
