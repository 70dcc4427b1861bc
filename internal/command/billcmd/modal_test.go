package billcmd

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitData(values map[string]string) discordgo.ModalSubmitInteractionData {
	var rows []discordgo.MessageComponent
	for _, f := range []Field{FieldName, FieldAmount, FieldMethod, FieldPayers} {
		v, ok := values[f.CustomID()]
		if !ok {
			continue
		}
		rows = append(rows, &discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				&discordgo.TextInput{CustomID: f.CustomID(), Value: v},
			},
		})
	}
	return discordgo.ModalSubmitInteractionData{CustomID: ModalID, Components: rows}
}

func TestParseSubmission(t *testing.T) {
	sub, err := ParseSubmission(submitData(map[string]string{
		"name":   " dons run ",
		"amount": "420.69",
		"method": "etransfer",
		"payers": "Jacob, Joel, Justin",
	}))
	require.NoError(t, err)

	assert.Equal(t, "dons run", sub.Name)
	assert.Equal(t, "420.69", sub.Amount)
	assert.Equal(t, "etransfer", sub.Method)
	assert.True(t, sub.HasPayers)
	assert.Equal(t, []string{"Jacob", "Joel", "Justin"}, sub.PayerNames())
}

func TestParseSubmissionWithoutPayers(t *testing.T) {
	sub, err := ParseSubmission(submitData(map[string]string{
		"name":   "lunch",
		"amount": "12",
		"method": "cash",
		"payers": "   ",
	}))
	require.NoError(t, err)
	assert.False(t, sub.HasPayers)
	assert.Nil(t, sub.PayerNames())
}

func TestParseSubmissionMissingFields(t *testing.T) {
	_, err := ParseSubmission(submitData(map[string]string{"name": "lunch"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount, method")
}

func TestParseSubmissionWrongModal(t *testing.T) {
	data := submitData(map[string]string{"name": "x", "amount": "1", "method": "cash"})
	data.CustomID = "something_else"
	_, err := ParseSubmission(data)
	assert.ErrorIs(t, err, ErrWrongModal)
}

func TestParseSubmissionIgnoresUnknownInputs(t *testing.T) {
	data := submitData(map[string]string{"name": "x", "amount": "1", "method": "cash"})
	data.Components = append(data.Components, &discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{&discordgo.TextInput{CustomID: "colour", Value: "red"}},
	})
	sub, err := ParseSubmission(data)
	require.NoError(t, err)
	assert.Equal(t, "x", sub.Name)
}

func TestPayerNamesCollapsesRepeats(t *testing.T) {
	sub := &Submission{Payers: "Joel, ,jacob,JOEL, Jacob ,", HasPayers: true}
	assert.Equal(t, []string{"Joel", "jacob"}, sub.PayerNames())
}

func TestModalLayout(t *testing.T) {
	m := Modal()
	assert.Equal(t, ModalID, m.CustomID)
	assert.Equal(t, "Create a new bill", m.Title)
	require.Len(t, m.Components, 4)

	var ids []string
	var required []bool
	for _, c := range m.Components {
		row, ok := c.(discordgo.ActionsRow)
		require.True(t, ok)
		input, ok := row.Components[0].(discordgo.TextInput)
		require.True(t, ok)
		ids = append(ids, input.CustomID)
		required = append(required, input.Required)
	}
	assert.Equal(t, []string{"name", "amount", "method", "payers"}, ids)
	assert.Equal(t, []bool{true, true, true, false}, required)
}

func TestModalRoundTripsThroughParse(t *testing.T) {
	m := Modal()
	_, err := ParseSubmission(discordgo.ModalSubmitInteractionData{CustomID: m.CustomID, Components: m.Components})
	require.NoError(t, err)
}
