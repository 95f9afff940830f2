package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/SaisandeepKv/vernon-clinic-sub000/widget"
)

type ClientFlags struct {
	APIURL    string
	StateFile string
}

func NewClientFlags() *ClientFlags {
	f := &ClientFlags{APIURL: "http://localhost:8080"}
	if v := os.Getenv("VERNON_API_URL"); v != "" {
		f.APIURL = v
	}
	if dir, err := os.UserConfigDir(); err == nil {
		f.StateFile = filepath.Join(dir, "vernonchat", "state.json")
	} else {
		f.StateFile = ".vernonchat.json"
	}
	return f
}

func (f *ClientFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.APIURL, "api-url", f.APIURL, "Base URL of the assistant API (env VERNON_API_URL)")
	fs.StringVar(&f.StateFile, "state-file", f.StateFile, "Where the session id and flags are persisted")
}

func (f *ClientFlags) Client() *widget.APIClient {
	return widget.NewAPIClient(widget.ClientConfig{BaseURL: f.APIURL, UserAgent: "vernonchat/1.0"})
}

func (f *ClientFlags) Store() (widget.Store, error) {
	return widget.NewFileStore(f.StateFile)
}

// session returns the persisted session id, minting one when it expired.
func (f *ClientFlags) session() (string, error) {
	store, err := f.Store()
	if err != nil {
		return "", err
	}
	sess, err := widget.EnsureSession(store, timeNow())
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}
