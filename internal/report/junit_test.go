package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const suitesXML = `<?xml version="1.0" encoding="UTF-8"?>
<testsuites>
  <testsuite name="com.example.UserTest" tests="2" time="1.5">
    <testcase name="testCreate" classname="com.example.UserTest" time="1.0"/>
    <testcase name="testDelete" classname="com.example.UserTest" time="0.5"/>
  </testsuite>
  <testsuite name="payments">
    <testcase name="testCharge" classname="com.example.PaymentTest" time="2.25"/>
    <testcase name="testRefund" classname="com.example.RefundTest" time="0.010"/>
    <testsuite name="nested">
      <testcase name="testDeep" classname="com.example.DeepTest" time="3"/>
    </testsuite>
  </testsuite>
</testsuites>`

func classDurations(n *Node, out map[string]int64) {
	if n.Kind == KindClass {
		out[n.Name] = n.Duration
		return
	}
	for _, c := range n.Children {
		classDurations(c, out)
	}
}

func TestParseJUnit_TestSuites(t *testing.T) {
	root, err := ParseJUnit(strings.NewReader(suitesXML), "report.xml")
	require.NoError(t, err)

	assert.Equal(t, KindSuite, root.Kind)
	assert.Equal(t, "report.xml", root.Name)
	require.Len(t, root.Children, 2)

	got := make(map[string]int64)
	classDurations(root, got)
	assert.Equal(t, map[string]int64{
		"com.example.UserTest":    1500,
		"com.example.PaymentTest": 2250,
		"com.example.RefundTest":  10,
		"com.example.DeepTest":    3000,
	}, got)

	user := root.Children[0].Children[0]
	assert.Equal(t, KindClass, user.Kind)
	require.Len(t, user.Children, 2)
	assert.Equal(t, KindCase, user.Children[0].Kind)
	assert.Equal(t, "testCreate", user.Children[0].Name)
}

func TestParseJUnit_SingleSuite(t *testing.T) {
	doc := `<testsuite name="OrderTest">
  <testcase name="testPlace" time="0.2"/>
  <testcase name="testCancel" classname="" time="0.3"/>
</testsuite>`
	root, err := ParseJUnit(strings.NewReader(doc), "order.xml")
	require.NoError(t, err)

	got := make(map[string]int64)
	classDurations(root, got)
	assert.Equal(t, map[string]int64{"OrderTest": 500}, got)
}

func TestParseJUnit_DataProviderSuitesMergeIntoOneClass(t *testing.T) {
	doc := `<testsuites>
  <testsuite name="Tests\FooTest">
    <testcase name="testPlain" classname="Tests.FooTest" time="1"/>
    <testsuite name="Tests\FooTest::testProvided">
      <testcase name="testProvided with data set #0" classname="Tests.FooTest" time="5"/>
      <testcase name="testProvided with data set #1" classname="Tests.FooTest" time="5"/>
    </testsuite>
  </testsuite>
</testsuites>`
	root, err := ParseJUnit(strings.NewReader(doc), "foo.xml")
	require.NoError(t, err)

	var classNodes int
	var count func(n *Node)
	count = func(n *Node) {
		if n.Kind == KindClass {
			classNodes++
		}
		for _, c := range n.Children {
			count(c)
		}
	}
	count(root)
	assert.Equal(t, 1, classNodes)

	got := make(map[string]int64)
	classDurations(root, got)
	assert.Equal(t, map[string]int64{"Tests.FooTest": 11000}, got)
}

func TestParseFiles_ClassAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "TEST-1.xml")
	b := filepath.Join(dir, "TEST-2.xml")
	require.NoError(t, os.WriteFile(a, []byte(`<testsuite name="s"><testcase name="x" classname="X" time="1"/></testsuite>`), 0644))
	require.NoError(t, os.WriteFile(b, []byte(`<testsuite name="s"><testcase name="y" classname="X" time="8"/><testcase name="z" classname="Y" time="2"/></testsuite>`), 0644))

	root, err := ParseFiles([]string{a, b})
	require.NoError(t, err)

	got := make(map[string]int64)
	classDurations(root, got)
	assert.Equal(t, map[string]int64{"X": 9000, "Y": 2000}, got)
}

func TestParseJUnit_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "not xml", doc: "this is not xml"},
		{name: "unexpected root", doc: "<coverage/>"},
		{name: "bad time", doc: `<testsuite name="s"><testcase name="a" classname="A" time="soon"/></testsuite>`},
		{name: "negative time", doc: `<testsuite name="s"><testcase name="a" classname="A" time="-1"/></testsuite>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJUnit(strings.NewReader(tt.doc), "bad.xml")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "expected ErrMalformed, got %v", err)
		})
	}
}

func TestParseFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "TEST-a.xml")
	b := filepath.Join(dir, "TEST-b.xml")
	require.NoError(t, os.WriteFile(a, []byte(`<testsuite name="A"><testcase name="x" classname="A" time="1"/></testsuite>`), 0644))
	require.NoError(t, os.WriteFile(b, []byte(`<testsuite name="B"><testcase name="y" classname="B" time="2"/></testsuite>`), 0644))

	root, err := ParseFiles([]string{a, b})
	require.NoError(t, err)
	require.Len(t, root.Children, 2)
	assert.Equal(t, "TEST-a.xml", root.Children[0].Name)

	got := make(map[string]int64)
	classDurations(root, got)
	assert.Equal(t, map[string]int64{"A": 1000, "B": 2000}, got)

	_, err = ParseFiles([]string{filepath.Join(dir, "missing.xml")})
	assert.Error(t, err)
}

func TestParseSeconds(t *testing.T) {
	tests := []struct {
		in       string
		expected int64
	}{
		{"", 0},
		{"0", 0},
		{"1.5", 1500},
		{"0.0004", 0},
		{"0.0006", 1},
		{"1,234.5", 1234500},
	}
	for _, tt := range tests {
		got, err := parseSeconds(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.expected, got, tt.in)
	}
}
