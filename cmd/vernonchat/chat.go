package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SaisandeepKv/vernon-clinic-sub000/agent"
	"github.com/SaisandeepKv/vernon-clinic-sub000/widget"
)

var timeNow = time.Now

const proactiveTip = "Tip: type a number to pick a suggestion, /photo <file> <question> to attach a photo, " +
	"/analyze for a quick skin check, /retry after an error, /reset to start over, /quit to leave."

func NewChatCommand() *cobra.Command {
	f := NewClientFlags()

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation with the assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := f.Store()
			if err != nil {
				return err
			}
			api := f.Client()
			s := &chatSession{
				api: api,
				in:  bufio.NewScanner(cmd.InOrStdin()),
				out: cmd.OutOrStdout(),
			}
			ctrl, err := widget.NewController(api, store, widget.OnChange(s.render))
			if err != nil {
				return err
			}
			s.ctrl = ctrl
			s.capture = widget.NewCaptureFlow(api, ctrl.SessionID())
			return s.loop(cmd.Context())
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}

type chatSession struct {
	api     *widget.APIClient
	ctrl    *widget.Controller
	capture *widget.CaptureFlow
	in      *bufio.Scanner
	out     io.Writer

	printed int
	chips   []string
}

// render prints the streamed reply as it grows.
func (s *chatSession) render(st widget.State) {
	if st.Pending == nil {
		return
	}
	text := st.Pending.Text()
	if len(text) > s.printed {
		if s.printed == 0 {
			fmt.Fprint(s.out, "Vera: ")
		}
		fmt.Fprint(s.out, text[s.printed:])
		s.printed = len(text)
	}
}

func (s *chatSession) loop(ctx context.Context) error {
	if last, ok := s.ctrl.State().LastAssistant(); ok {
		fmt.Fprintf(s.out, "Vera: %s\n", last.Text())
	}
	if s.ctrl.ClaimProactive() {
		fmt.Fprintln(s.out, proactiveTip)
	}
	s.showChips()

	for {
		fmt.Fprint(s.out, "> ")
		line, ok := s.readLine()
		if !ok {
			return nil
		}
		if line == "" {
			continue
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(s.chips) {
			line = s.chips[n-1]
			fmt.Fprintf(s.out, "You: %s\n", line)
		}

		var err error
		switch {
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/reset":
			err = s.ctrl.Reset()
			if err == nil {
				s.capture = widget.NewCaptureFlow(s.api, s.ctrl.SessionID())
				fmt.Fprintln(s.out, "Started a new conversation.")
			}
		case line == "/retry":
			err = s.turn(func() (*agent.Message, error) { return s.ctrl.Retry(ctx) })
		case line == "/analyze" || line == widget.ChipAnalyzePhoto:
			err = s.runCapture(ctx)
		case strings.HasPrefix(line, "/photo "):
			err = s.sendPhoto(ctx, strings.TrimPrefix(line, "/photo "))
		default:
			err = s.turn(func() (*agent.Message, error) { return s.ctrl.Send(ctx, line, nil) })
		}
		if err != nil {
			fmt.Fprintf(s.out, "! %v\n", err)
		}
	}
}

func (s *chatSession) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *chatSession) prompt(label string) (string, bool) {
	fmt.Fprintf(s.out, "%s: ", label)
	return s.readLine()
}

func (s *chatSession) sendPhoto(ctx context.Context, args string) error {
	path, question, _ := strings.Cut(strings.TrimSpace(args), " ")
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.turn(func() (*agent.Message, error) {
		return s.ctrl.Send(ctx, question, &widget.Attachment{Data: data})
	})
}

// turn runs one send or retry and prints what the widget would render after it.
func (s *chatSession) turn(run func() (*agent.Message, error)) error {
	s.printed = 0
	msg, err := run()
	if s.printed > 0 {
		fmt.Fprintln(s.out)
	}

	var tf *widget.TurnFailedError
	if errors.As(err, &tf) {
		fmt.Fprintln(s.out, "Sorry, something went wrong. Type /retry to try again, or message us on WhatsApp:")
		fmt.Fprintln(s.out, "  "+tf.EscapeURL)
		return nil
	}
	if err != nil {
		return err
	}

	if s.printed == 0 && msg != nil {
		fmt.Fprintf(s.out, "Vera: %s\n", msg.Text())
	}
	if msg != nil {
		if d, ok := widget.BookingResult(*msg); ok {
			fmt.Fprintf(s.out, "  ┌ Booking received: %s, %s at %s\n", d.Name, d.Treatment, d.Location)
			fmt.Fprintf(s.out, "  └ Date: %s  Time: %s\n", d.Date, d.Time)
		}
		if url, ok := widget.WhatsAppLink(*msg); ok {
			fmt.Fprintf(s.out, "  WhatsApp: %s\n", url)
		}
	}
	s.showChips()
	return nil
}

func (s *chatSession) showChips() {
	s.chips = s.ctrl.Suggestions()
	for i, c := range s.chips {
		fmt.Fprintf(s.out, "  %d) %s\n", i+1, c)
	}
}

// runCapture walks the photo capture flow. Name and phone are asked before
// any photo, and kept for retries until /reset.
func (s *chatSession) runCapture(ctx context.Context) error {
	f := s.capture
	switch f.State() {
	case widget.CaptureIdle:
		if err := f.Open(); err != nil {
			return err
		}
	case widget.CaptureSuccess:
		if err := f.AnotherPhoto(); err != nil {
			return err
		}
	case widget.CaptureFailure:
		if err := f.Retry(); err != nil {
			return err
		}
	}

	for f.State() == widget.CaptureLeadFormOpen {
		fmt.Fprintln(s.out, "Before we look at your photo, please share your name and phone number.")
		name, ok := s.prompt("Name")
		if !ok {
			return nil
		}
		phone, ok := s.prompt("Phone")
		if !ok {
			return nil
		}
		if err := f.SubmitLead(name, phone); err != nil {
			fmt.Fprintf(s.out, "! %v\n", err)
		}
	}

	src := widget.SourceGallery
	if answer, ok := s.prompt("Camera or gallery? [g]"); !ok {
		return nil
	} else if strings.HasPrefix(strings.ToLower(answer), "c") {
		src = widget.SourceCamera
	}
	if err := f.PickSource(src); err != nil {
		return err
	}

	path, ok := s.prompt("Photo file")
	if !ok {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		f.Reset()
		return err
	}

	fmt.Fprintln(s.out, "Analyzing your photo...")
	report, err := f.Upload(ctx, data)
	if err != nil {
		fmt.Fprintf(s.out, "! The analysis failed: %v\n  Type /analyze to try another photo.\n", err)
		return nil
	}
	printReport(s.out, report)

	if answer, ok := s.prompt("Book a consultation about these results? [y/N]"); ok && strings.HasPrefix(strings.ToLower(answer), "y") {
		req, err := f.BookingPrefill()
		if err != nil {
			return err
		}
		loc, ok := s.prompt("Branch (Banjara Hills, Jubilee Hills, Gachibowli)")
		if !ok {
			return nil
		}
		req.Location = bookingLocation(loc)
		details, msg, err := s.api.Book(ctx, req, s.ctrl.SessionID())
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, msg)
		printDetails(s.out, details)
	}
	return nil
}
