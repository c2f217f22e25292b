package sessions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"venue-guide/internal/i18n"
	"venue-guide/internal/models"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "SingleSessionWithWeekdayRange",
			in:   "18-19/12/2025 (Thu-Fri) 20:30",
			want: []string{"18-19/12/2025 (Thu-Fri) 20:30"},
		},
		{
			name: "ExceptClauseAbsorbsBareDate",
			in:   "15/12/2025 20:30, Except 25/12, 26/12",
			want: []string{"15/12/2025 20:30; Except 25/12, 26/12"},
		},
		{
			name: "Empty",
			in:   "",
			want: []string{},
		},
		{
			name: "WhitespaceOnly",
			in:   "  \n ",
			want: []string{},
		},
		{
			name: "FirstSegmentWithoutDate",
			in:   "7:00pm",
			want: []string{"7:00pm"},
		},
		{
			name: "CommaInsideParentheses",
			in:   "1/12/2025 (Mon, Wed) 20:00, 3/12/2025 (Fri) 19:30",
			want: []string{"1/12/2025 (Mon, Wed) 20:00", "3/12/2025 (Fri) 19:30"},
		},
		{
			name: "TimesJoinPreviousSession",
			in:   "Dec 5 7:30pm; Dec 6 2:00pm, 7:30pm",
			want: []string{"Dec 5 7:30pm", "Dec 6 2:00pm, 7:30pm"},
		},
		{
			name: "TripleDashSeparator",
			in:   "5/1/2026 20:00---6/1/2026 15:00",
			want: []string{"5/1/2026 20:00", "6/1/2026 15:00"},
		},
		{
			name: "NewlineSeparator",
			in:   "JAN 3 8pm\nJan 4 3pm",
			want: []string{"JAN 3 8pm", "Jan 4 3pm"},
		},
		{
			name: "DateWithParenthesesEndsExceptClause",
			in:   "15/12/2025 20:30, Except 25/12, 27/12/2025 (Sat) 15:00",
			want: []string{"15/12/2025 20:30; Except 25/12", "27/12/2025 (Sat) 15:00"},
		},
		{
			name: "ExceptIsCaseInsensitive",
			in:   "Nov 1 - Dec 20 (Tue-Sun) 10:00am, except public holidays",
			want: []string{"Nov 1 - Dec 20 (Tue-Sun) 10:00am; except public holidays"},
		},
		{
			name: "EmptySegmentsDropped",
			in:   "3/3 8pm,, ;  4/3 8pm,",
			want: []string{"3/3 8pm", "4/3 8pm"},
		},
		{
			name: "UnbalancedParenthesesStayTogether",
			in:   "1/1 (Mon, 2/1 (Tue)",
			want: []string{"1/1 (Mon, 2/1 (Tue)"},
		},
		{
			name: "StrayClosingParenthesis",
			in:   ") 1/1, 2/1",
			want: []string{") 1/1", "2/1"},
		},
		{
			name: "ExceptFirstSeedsList",
			in:   "Except Mondays, 4/4 20:00",
			want: []string{"Except Mondays, 4/4 20:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestPreview(t *testing.T) {
	list := []string{"a", "b", "c", "d"}

	shown, more := Preview(list, 2)
	assert.Equal(t, []string{"a", "b"}, shown)
	assert.Equal(t, 2, more)

	shown, more = Preview(list, 10)
	assert.Equal(t, list, shown)
	assert.Equal(t, 0, more)

	shown, more = Preview(list, -1)
	assert.Empty(t, shown)
	assert.Equal(t, 4, more)
}

func TestForEvent(t *testing.T) {
	e := models.Event{
		Date:        "Jan 3 8pm, Jan 4 3pm",
		DateChinese: "1月3日 晚上8時",
	}
	assert.Equal(t, []string{"Jan 3 8pm", "Jan 4 3pm"}, ForEvent(e, i18n.English))
	assert.Equal(t, []string{"1月3日 晚上8時"}, ForEvent(e, i18n.Chinese))
}
