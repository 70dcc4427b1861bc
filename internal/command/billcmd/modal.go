package billcmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// ModalID is the custom ID of the bill creation modal.
const ModalID = "bill_create_modal"

// Field enumerates the text inputs of the bill modal.
type Field int

const (
	FieldName Field = iota
	FieldAmount
	FieldMethod
	FieldPayers
)

var fieldIDs = map[Field]string{
	FieldName:   "name",
	FieldAmount: "amount",
	FieldMethod: "method",
	FieldPayers: "payers",
}

// CustomID returns the component ID the field is submitted under.
func (f Field) CustomID() string {
	return fieldIDs[f]
}

func fieldByID(id string) (Field, bool) {
	for f, fid := range fieldIDs {
		if fid == id {
			return f, true
		}
	}
	return 0, false
}

// Submission is a bill modal validated into typed fields. HasPayers is false
// when the payers input was absent or blank.
type Submission struct {
	Name      string
	Amount    string
	Method    string
	Payers    string
	HasPayers bool
}

var ErrWrongModal = errors.New("submission is not a bill modal")

// ParseSubmission reads the modal components once and checks required fields.
func ParseSubmission(data discordgo.ModalSubmitInteractionData) (*Submission, error) {
	if data.CustomID != ModalID {
		return nil, fmt.Errorf("%w: %q", ErrWrongModal, data.CustomID)
	}

	seen := make(map[Field]bool)
	sub := &Submission{}
	for _, input := range textInputs(data.Components) {
		field, ok := fieldByID(input.CustomID)
		if !ok {
			continue
		}
		value := strings.TrimSpace(input.Value)
		seen[field] = true
		switch field {
		case FieldName:
			sub.Name = value
		case FieldAmount:
			sub.Amount = value
		case FieldMethod:
			sub.Method = value
		case FieldPayers:
			sub.Payers = value
			sub.HasPayers = value != ""
		}
	}

	var missing []string
	for _, f := range []Field{FieldName, FieldAmount, FieldMethod} {
		if !seen[f] {
			missing = append(missing, f.CustomID())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("bill modal is missing fields: %s", strings.Join(missing, ", "))
	}
	return sub, nil
}

func textInputs(components []discordgo.MessageComponent) []*discordgo.TextInput {
	var inputs []*discordgo.TextInput
	for _, c := range components {
		switch v := c.(type) {
		case *discordgo.ActionsRow:
			inputs = append(inputs, textInputs(v.Components)...)
		case discordgo.ActionsRow:
			inputs = append(inputs, textInputs(v.Components)...)
		case *discordgo.TextInput:
			inputs = append(inputs, v)
		case discordgo.TextInput:
			inputs = append(inputs, &v)
		}
	}
	return inputs
}

// PayerNames splits the payers field on commas. Blank entries are dropped and
// repeated names (ignoring case) are kept once, in first-typed order.
func (s *Submission) PayerNames() []string {
	if !s.HasPayers {
		return nil
	}
	var names []string
	seen := make(map[string]bool)
	for _, token := range strings.Split(s.Payers, ",") {
		name := strings.TrimSpace(token)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names
}

// Modal returns the bill creation form.
func Modal() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: ModalID,
		Title:    "Create a new bill",
		Components: []discordgo.MessageComponent{
			textRow(FieldName, "Bill Name", discordgo.TextInputShort, "dons run", true),
			textRow(FieldAmount, "Amount", discordgo.TextInputShort, "420.69", true),
			textRow(FieldMethod, "Payment method", discordgo.TextInputParagraph, "Ex. etransfer jacob@example.com", true),
			textRow(FieldPayers, "Payers", discordgo.TextInputParagraph, "Ex. Jacob, Joel, Justin (matches server nicknames)", false),
		},
	}
}

func textRow(f Field, label string, style discordgo.TextInputStyle, placeholder string, required bool) discordgo.ActionsRow {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    f.CustomID(),
				Label:       label,
				Style:       style,
				Placeholder: placeholder,
				Required:    required,
				MaxLength:   maxLength(style),
			},
		},
	}
}

func maxLength(style discordgo.TextInputStyle) int {
	if style == discordgo.TextInputShort {
		return 100
	}
	return 1000
}
