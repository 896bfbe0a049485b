package tag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	testCases := []struct {
		description string
		text        string
		name        string
		expected    []*Tag
	}{
		{
			description: "items",
			text: `<item name="comment" type="string">approved</item>
<item name='_amount' type="integer">12</item>`,
			name: "item",
			expected: []*Tag{
				{Name: "item", Attributes: map[string]string{"name": "comment", "type": "string"}, Content: "approved", Start: 0, End: 50},
				{Name: "item", Attributes: map[string]string{"name": "_amount", "type": "integer"}, Content: "12", Start: 51, End: 96},
			},
		},
		{
			description: "self closed model",
			text:        `prefix <model version="1.0.0" event="20" task="1100" /> suffix`,
			name:        "model",
			expected: []*Tag{
				{Name: "model", Attributes: map[string]string{"version": "1.0.0", "event": "20", "task": "1100"}, SelfClosed: true, Start: 7, End: 55},
			},
		},
		{
			description: "case insensitive, longer names skipped",
			text:        `<items>x</items><ITEM name="a">b</ITEM>`,
			name:        "item",
			expected: []*Tag{
				{Name: "item", Attributes: map[string]string{"name": "a"}, Content: "b", Start: 16, End: 39},
			},
		},
		{
			description: "no tags",
			text:        "plain text",
			name:        "item",
		},
	}
	for _, testCase := range testCases {
		actual, err := Find(testCase.text, testCase.name)
		require.NoError(t, err, testCase.description)
		assert.EqualValues(t, testCase.expected, actual, testCase.description)
	}
}

func TestFind_Errors(t *testing.T) {
	for _, text := range []string{
		`<item name="comment">approved`,
		`<item name="comment`,
		`<item name=comment>x</item>`,
		`<model version="1.0.0"`,
	} {
		_, err := Find(text, "item")
		if text[1] == 'm' {
			_, err = Find(text, "model")
		}
		assert.Error(t, err, text)
	}
}

func TestTag_Attribute(t *testing.T) {
	tags, err := Find(`<model>
	<version>2.0.0</version>
	<event>30</event>
</model>`, "model")
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "2.0.0", tags[0].Attribute("version"))
	assert.Equal(t, "30", tags[0].Attribute("event"))
	assert.Equal(t, "", tags[0].Attribute("task"))
	assert.False(t, tags[0].HasAttribute("task"))
	assert.True(t, tags[0].HasAttribute("Version"))
}

func TestReplace(t *testing.T) {
	values := map[string]string{"_subject": "Printer", "namcurrenteditor": "anna"}
	actual, err := Replace(`<itemvalue>_subject</itemvalue> reported by <ItemValue>namcurrenteditor</ItemValue>.`, "itemvalue", func(tag *Tag) (string, error) {
		return values[tag.Content], nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Printer reported by anna.", actual)

	actual, err = Replace("no placeholders", "itemvalue", nil)
	require.NoError(t, err)
	assert.Equal(t, "no placeholders", actual)

	_, err = Replace("<itemvalue>broken", "itemvalue", nil)
	assert.Error(t, err)
}
