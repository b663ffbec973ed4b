package search

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/unifi-search-tool/unifi-search/internal/unifi"
)

// ErrInvalidTarget is returned when the target MAC address is not well formed.
// No controller call is made in that case.
var ErrInvalidTarget = errors.New("invalid target MAC address")

// Request is one search submitted by the front end. Username and Password are
// wiped once login has been attempted.
type Request struct {
	ID                 string
	Username           unifi.Secret
	Password           unifi.Secret
	ServerURL          string
	TargetMAC          string
	AcceptInvalidCerts bool
}

// Wipe zeroes the credentials. Safe to call more than once.
func (r *Request) Wipe() {
	r.Username.Wipe()
	r.Password.Wipe()
}

// Kind identifies the terminal state of a search.
type Kind int

const (
	KindFound Kind = iota + 1
	KindNotFound
	KindCancelled
	KindFailed
)

var kindNames = map[Kind]string{
	KindFound:     "found",
	KindNotFound:  "not_found",
	KindCancelled: "cancelled",
	KindFailed:    "failed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "unknown"
}

// Outcome is the single result of a search. Device is set only for
// KindFound and Err only for KindFailed.
type Outcome struct {
	Kind   Kind
	Device *unifi.Device
	Err    error
}

func Found(d unifi.Device) Outcome { return Outcome{Kind: KindFound, Device: &d} }
func NotFound() Outcome            { return Outcome{Kind: KindNotFound} }
func Cancelled() Outcome           { return Outcome{Kind: KindCancelled} }
func Failed(err error) Outcome     { return Outcome{Kind: KindFailed, Err: err} }

// ErrorKind names the failure class of a failed outcome, or "" otherwise.
func (o Outcome) ErrorKind() string {
	if o.Kind != KindFailed {
		return ""
	}

	if errors.Is(o.Err, ErrInvalidTarget) {
		return "InvalidTarget"
	}

	if kind, ok := unifi.KindOf(o.Err); ok {
		return kind.String()
	}

	return "Unknown"
}

type outcomeJSON struct {
	Status    string        `json:"status"`
	Device    *unifi.Device `json:"device,omitempty"`
	Label     string        `json:"label,omitempty"`
	Error     string        `json:"error,omitempty"`
	ErrorKind string        `json:"error_kind,omitempty"`
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	out := outcomeJSON{
		Status:    o.Kind.String(),
		Device:    o.Device,
		ErrorKind: o.ErrorKind(),
	}

	if o.Device != nil {
		out.Label = o.Device.Label()
	}

	if o.Err != nil {
		out.Error = o.Err.Error()
	}

	return json.Marshal(out)
}

// Hooks connect a running search to its caller. Either field may be nil.
type Hooks struct {
	// Cancelled reports whether the caller asked to stop.
	Cancelled func() bool
	// Progress receives the fraction of sites scanned, in [0, 1].
	Progress func(float32)
}

func (h Hooks) cancelled() bool {
	return h.Cancelled != nil && h.Cancelled()
}

func (h Hooks) progress(p float32) {
	if h.Progress != nil {
		h.Progress(p)
	}
}

// Record describes a finished search for notifiers. It never carries
// credentials.
type Record struct {
	ID         string    `json:"search_id"`
	TargetMAC  string    `json:"target_mac"`
	ServerURL  string    `json:"server_url"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Outcome    Outcome   `json:"outcome"`
}

// Duration is the wall time the search took.
func (r Record) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
