package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestNormalizeText(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{in: "  TradeBot \n", expected: "TradeBot"},
		{in: "a\t\t b\n\nc", expected: "a b c"},
		{in: "zero\u200bwidth", expected: "zerowidth"},
		{in: "", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, NormalizeText(test.in), test.in)
	}
}

func TestNodeText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<td><span>0x12</span>
		<div class="ant-tooltip"><div class="ant-tooltip-inner">0x1234</div></div></td>`))
	require.NoError(t, err)
	require.Equal(t, "0x12 0x1234", NodeText(doc))
}
