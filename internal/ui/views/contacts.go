package views

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/oklog/ulid/v2"

	"github.com/HamStudy/listkit/internal/components/datagrid"
)

// Contact is one radio contact log entry used as demo data
type Contact struct {
	ID      string
	Call    string
	Name    string
	Band    string
	Mode    string
	FreqKHz int
	Country string
	Notes   string
	At      time.Time
}

var (
	bands     = []string{"160m", "80m", "40m", "20m", "15m", "10m", "6m", "2m"}
	bandFreqs = []int{1840, 3573, 7074, 14074, 21074, 28074, 50313, 144174}
	modes     = []string{"SSB", "CW", "FT8", "FM", "RTTY"}
	names     = []string{"Alice", "Bob", "Carmen", "Dmitri", "Eve", "Farid", "Grace", "Hiro", "Ines", "Jun"}
	countries = []string{"USA", "Canada", "Japan", "Germany", "Brazil", "Kenya", "Australia", "Norway"}
	prefixes  = []string{"K", "W", "N", "VE", "JA", "DL", "PY", "5Z", "VK", "LA"}
	notes     = []string{"", "", "", "QSL via bureau", "Portable, summit activation", "", "Weak signal, QSB", ""}
)

// contactEpoch anchors generated timestamps so output is reproducible
var contactEpoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// ContactSource generates reproducible contacts with ULID identifiers
type ContactSource struct {
	rng     *rand.Rand
	entropy *ulid.MonotonicEntropy
	next    int
}

// NewContactSource creates a source seeded with seed
func NewContactSource(seed int64) *ContactSource {
	return &ContactSource{
		rng:     rand.New(rand.NewSource(seed)),
		entropy: ulid.Monotonic(rand.New(rand.NewSource(seed+1)), 0),
	}
}

// Generate returns the next n contacts
func (s *ContactSource) Generate(n int) []Contact {
	out := make([]Contact, n)
	for i := range out {
		at := contactEpoch.Add(time.Duration(s.next) * time.Minute)
		band := s.rng.Intn(len(bands))
		prefix := prefixes[s.rng.Intn(len(prefixes))]

		out[i] = Contact{
			ID:      ulid.MustNew(ulid.Timestamp(at), s.entropy).String(),
			Call:    fmt.Sprintf("%s%d%s", prefix, s.rng.Intn(10), suffix(s.rng)),
			Name:    names[s.rng.Intn(len(names))],
			Band:    bands[band],
			Mode:    modes[s.rng.Intn(len(modes))],
			FreqKHz: bandFreqs[band] + s.rng.Intn(40),
			Country: countries[s.rng.Intn(len(countries))],
			Notes:   notes[s.rng.Intn(len(notes))],
			At:      at,
		}
		s.next++
	}
	return out
}

// Generated returns how many contacts have been produced
func (s *ContactSource) Generated() int { return s.next }

func suffix(rng *rand.Rand) string {
	b := make([]byte, 2+rng.Intn(2))
	for i := range b {
		b[i] = byte('A' + rng.Intn(26))
	}
	return string(b)
}

// GenerateContacts returns n reproducible contacts
func GenerateContacts(n int, seed int64) []Contact {
	return NewContactSource(seed).Generate(n)
}

// contactHeight is two rows for contacts with notes
func contactHeight(c Contact) int {
	if c.Notes != "" {
		return 2
	}
	return 1
}

func renderContact(c Contact) string {
	line := fmt.Sprintf("%-9s %-7s %-5s %-4s %6d kHz  %s", c.Call, c.Name, c.Band, c.Mode, c.FreqKHz, c.Country)
	return withNotes(line, c)
}

// withNotes appends the notes row under a contact's first line
func withNotes(line string, c Contact) string {
	if c.Notes == "" {
		return line
	}
	return line + "\n" + lipgloss.NewStyle().Faint(true).Render("    ↳ "+c.Notes)
}

// ContactColumns returns the grid columns for contacts
func ContactColumns() []datagrid.Column[Contact] {
	return []datagrid.Column[Contact]{
		{
			Key: "call", Header: "Call", Width: 10, Sortable: true, Filterable: true,
			Value: func(c Contact) string { return c.Call },
		},
		{
			Key: "name", Header: "Name", Width: 8, Sortable: true, Filterable: true,
			Value: func(c Contact) string { return c.Name },
		},
		{
			Key: "band", Header: "Band", Width: 6, Sortable: true, Filterable: true,
			Value: func(c Contact) string { return c.Band },
		},
		{
			Key: "mode", Header: "Mode", Width: 6, Sortable: true, Filterable: true,
			Value: func(c Contact) string { return c.Mode },
		},
		{
			Key: "freq", Header: "kHz", Width: 8, Sortable: true, Align: lipgloss.Right,
			Value: func(c Contact) string { return strconv.Itoa(c.FreqKHz) },
		},
		{
			Key: "country", Header: "Country", MinWidth: 8, Flex: true, Sortable: true, Filterable: true,
			Value: func(c Contact) string { return c.Country },
		},
		{
			Key: "notes", Header: "Notes", MinWidth: 10, Flex: true, Filterable: true, TruncateAt: "middle",
			Value: func(c Contact) string { return c.Notes },
		},
		{
			Key: "time", Header: "UTC", Width: 16, Sortable: true,
			Value: func(c Contact) string { return c.At.Format("2006-01-02 15:04") },
		},
	}
}
