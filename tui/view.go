package tui

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/charmbracelet/lipgloss"
	"github.com/lightningnetwork/lnd/lnwire"

	"github.com/erickcestari/bolt12-offer-decoder/offers"
)

// The lightning palette the original decoder shipped with.
var (
	lightningBlue   = lipgloss.Color("#1E90FF")
	lightningYellow = lipgloss.Color("#FFD700")
	lightningPurple = lipgloss.Color("#8A2BE2")
	textSecondary   = lipgloss.Color("#A0A0B4")
	cardBorder      = lipgloss.Color("#3C3C50")
	errorBorder     = lipgloss.Color("#DC3232")
	errorText       = lipgloss.Color("#FF9696")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lightningYellow)

	subtitleStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(textSecondary)

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lightningBlue)

	inputCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(cardBorder).
			Padding(0, 1)

	offerCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lightningBlue).
			Padding(0, 1)

	errorCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errorBorder).
			Padding(0, 1)

	errorTextStyle = lipgloss.NewStyle().
			Foreground(errorText)

	payloadStyle = lipgloss.NewStyle().
			Foreground(textSecondary)

	// Field labels rotate through the palette, as in the original.
	accents = []lipgloss.Color{
		lightningBlue, lightningPurple, lightningYellow,
	}
)

// View implements tea.Model. Both pipelines are re-run against the current
// input on every render.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		titleStyle.Render("⚡ BOLT12 Offer Decoder ⚡"),
		subtitleStyle.Render("Lightning Network Offer Analysis Tool"),
		"",
		inputCardStyle.Render(
			promptStyle.Render("Enter BOLT12 Offer:") + "\n" +
				m.input.View(),
		),
	}

	result := m.deriveResult()
	switch result.kind {
	case resultError:
		sections = append(sections, errorCardStyle.Render(
			errorTextStyle.Render("⚠ Error: "+result.errMsg),
		))

	case resultDecoded:
		sections = append(
			sections, m.renderOffer(result.offer),
		)
	}

	if payload, payloadErr := m.derivePayload(); payload != "" {
		sections = append(sections, payloadStyle.Render(
			"Transport payload: "+payload,
		))
	} else if payloadErr != "" {
		sections = append(sections, payloadStyle.Render(
			"Transport payload: "+payloadErr,
		))
	}

	sections = append(
		sections,
		"",
		subtitleStyle.Render("⚡ Powered by Lightning Network ⚡"),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

// renderOffer renders the decoded offer's fields as a bordered card.
func (m Model) renderOffer(offer *offers.Offer) string {
	fields := []struct {
		label string
		value string
	}{
		{"📝 Description", formatOptional(offer.Description,
			"No description")},
		{"⛓ Chains", formatChains(offer.Chains)},
		{"💰 Amount", formatAmount(offer.Amount)},
		{"🎯 Features", formatFeatures(offer.Features)},
		{"🗝 Signing Pubkey", formatNodeID(offer.NodeID)},
		{"🌐 Paths", fmt.Sprintf("%d path(s) available",
			len(offer.Paths))},
		{"🏢 Issuer", formatOptional(offer.Issuer, "Not specified")},
		{"📊 Quantity", formatQuantity(offer.SupportedQuantity())},
		{"⏰ Absolute Expiry", formatExpiry(offer.Expiry)},
	}

	rows := make([]string, 0, len(fields)+1)
	rows = append(rows, titleStyle.Render("⚡ Decoded Offer Information"))

	for i, field := range fields {
		labelStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(accents[i%len(accents)])

		rows = append(
			rows, labelStyle.Render(field.label)+" "+field.value,
		)
	}

	return offerCardStyle.Render(strings.Join(rows, "\n"))
}

// formatOptional substitutes a placeholder for fields the offer did not set.
func formatOptional(value, placeholder string) string {
	if value == "" {
		return placeholder
	}

	return value
}

// formatChains renders the offer's chain list. An offer with no chains record
// is implicitly a bitcoin mainnet offer.
func formatChains(chains []chainhash.Hash) string {
	if len(chains) == 0 {
		return chaincfg.MainNetParams.GenesisHash.String()
	}

	formatted := make([]string, len(chains))
	for i, chain := range chains {
		chain := chain
		formatted[i] = chain.String()
	}

	return strings.Join(formatted, ", ")
}

// formatAmount renders the offer's amount in its denomination, or "Any
// amount" when the offer does not charge one.
func formatAmount(amount offers.Amount) string {
	switch amount.Kind {
	case offers.AmountBitcoin:
		return fmt.Sprintf("%d msat", uint64(amount.Msats))

	case offers.AmountCurrency:
		return fmt.Sprintf("%d %s", amount.Units, amount.Currency)

	default:
		return "Any amount"
	}
}

// formatFeatures renders the offer's feature bits in ascending order with
// their names where known.
func formatFeatures(features *lnwire.FeatureVector) string {
	if features == nil || features.IsEmpty() {
		return "None"
	}

	bits := make([]lnwire.FeatureBit, 0)
	for bit := range features.Features() {
		bits = append(bits, bit)
	}
	sort.Slice(bits, func(i, j int) bool { return bits[i] < bits[j] })

	formatted := make([]string, len(bits))
	for i, bit := range bits {
		formatted[i] = fmt.Sprintf("%d (%v)", bit, features.Name(bit))
	}

	return strings.Join(formatted, ", ")
}

// formatNodeID renders the offer's signing pubkey as compressed hex.
func formatNodeID(nodeID *btcec.PublicKey) string {
	if nodeID == nil {
		return "Not specified"
	}

	return hex.EncodeToString(nodeID.SerializeCompressed())
}

// formatQuantity renders the offer's quantity policy.
func formatQuantity(quantity offers.Quantity) string {
	switch quantity.Kind {
	case offers.QuantityUnbounded:
		return "No limit"

	case offers.QuantityBounded:
		return fmt.Sprintf("Up to %d", quantity.Max)

	default:
		return "One"
	}
}

// formatExpiry renders the offer's absolute expiry time.
func formatExpiry(expiry time.Time) string {
	if expiry.IsZero() {
		return "No expiry"
	}

	return expiry.UTC().Format(time.RFC3339)
}
