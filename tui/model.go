// Package tui renders the offer decoder as a terminal program. The model
// holds nothing but the raw input: both decode pipelines are re-derived from
// it on every render, so there is no cached state to fall out of sync.
package tui

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/erickcestari/bolt12-offer-decoder/offers"
)

// DefaultOffer is the offer pre-loaded into the input field so that the panel
// shows a decoded offer on first launch.
const DefaultOffer = "lno1pqps7sjqpgt+yzm3qv4uxzmtsd3jjqer9wd3hy6tsw3+" +
	"5k7msjzfpy7nz5yqcn+ygrfdej82um5wf5k2uckyypwa3eyt44h6txtxquqh7lz5djge" +
	"4afgfjn7k4rgrkuag0jsd+5xvxg"

// resultKind tags the outcome of a decode attempt.
type resultKind int

const (
	// resultEmpty indicates that there was nothing to decode.
	resultEmpty resultKind = iota

	// resultError indicates a failed decode.
	resultError

	// resultDecoded indicates a successful decode.
	resultDecoded
)

// decodeResult is the outcome of a single decode attempt. The kind tag keeps
// the error message and the offer mutually exclusive: exactly one of them is
// set for its kind, never both.
type decodeResult struct {
	kind   resultKind
	errMsg string
	offer  *offers.Offer
}

// Model is the bubbletea model for the decoder.
type Model struct {
	input   textarea.Model
	decoder offers.OfferDecoder

	width  int
	height int

	quitting bool
}

// New creates a model that decodes input with the package level offer
// decoder, pre-filled with the initial string provided.
func New(initial string) Model {
	return NewWithDecoder(
		initial, offers.DecoderFunc(offers.DecodeOfferStr),
	)
}

// NewWithDecoder creates a model that decodes input with the decoder
// provided. Used by tests to substitute a stub decoder.
func NewWithDecoder(initial string, decoder offers.OfferDecoder) Model {
	input := textarea.New()
	input.Placeholder = "lno1... (paste your BOLT12 offer here)"
	input.CharLimit = 0
	input.SetHeight(4)
	input.SetValue(initial)
	input.Focus()

	return Model{
		input:   input,
		decoder: decoder,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model. All it manages is the input surface and window
// size; decoding happens in View.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		inputWidth := m.width - 8
		if inputWidth > 0 {
			m.input.SetWidth(inputWidth)
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// deriveResult runs the semantic decode pipeline against the current input.
// Empty input (after trimming) is a neutral state, not an error.
func (m Model) deriveResult() decodeResult {
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return decodeResult{kind: resultEmpty}
	}

	offer, err := m.decoder.DecodeOfferStr(raw)
	if err != nil {
		return decodeResult{
			kind:   resultError,
			errMsg: fmt.Sprintf("Failed to parse offer: %v", err),
		}
	}

	return decodeResult{
		kind:  resultDecoded,
		offer: offer,
	}
}

// derivePayload runs the transport pipeline against the current input,
// returning the decoded payload as lowercase hex, or the validation error.
// This pipeline is independent of deriveResult's: it is purely diagnostic and
// does not block semantic decoding.
func (m Model) derivePayload() (string, string) {
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return "", ""
	}

	payload, err := offers.DecodePayload(raw)
	if err != nil {
		return "", err.Error()
	}

	return hex.EncodeToString(payload), ""
}
