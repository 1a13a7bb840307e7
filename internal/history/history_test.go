package history

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptsplit/internal/domain"
	"ptsplit/internal/report"
)

// fakeBuild is an in-memory build chain that records which builds were examined
type fakeBuild struct {
	number   int
	result   domain.BuildResult
	tree     *report.Node
	treeErr  error
	prev     *fakeBuild
	prevErr  error
	examined *[]int
}

func (b *fakeBuild) Number() int { return b.number }

func (b *fakeBuild) Result() domain.BuildResult {
	*b.examined = append(*b.examined, b.number)
	return b.result
}

func (b *fakeBuild) Previous() (Build, error) {
	if b.prevErr != nil {
		return nil, b.prevErr
	}
	if b.prev == nil {
		return nil, nil
	}
	return b.prev, nil
}

func (b *fakeBuild) TestReport() (*report.Node, error) { return b.tree, b.treeErr }

// chain builds a current build numbered len(prior)+1 on top of prior builds;
// prior[0] is the oldest.
func chain(prior []*fakeBuild) (*fakeBuild, *[]int) {
	examined := &[]int{}
	var prev *fakeBuild
	for i, b := range prior {
		b.number = i + 1
		b.prev = prev
		b.examined = examined
		prev = b
	}
	return &fakeBuild{number: len(prior) + 1, prev: prev, examined: examined}, examined
}

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func tree(name string) *report.Node {
	return report.Suite(name, report.Class(name, 10))
}

func TestFindReference_MostRecentAcceptedWins(t *testing.T) {
	current, _ := chain([]*fakeBuild{
		{result: domain.ResultSuccess, tree: tree("old")},
		{result: domain.ResultUnstable, tree: tree("unstable")},
		{result: domain.ResultFailure, tree: tree("failed")},
		{result: domain.ResultAborted, tree: tree("aborted")},
	})
	logger, buf := testLogger()

	got, number, err := FindReference(current, logger)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "unstable", got.Name)
	assert.Equal(t, 2, number)
	assert.Contains(t, buf.String(), "Using build #2 as reference")
}

func TestFindReference_AcceptanceFilter(t *testing.T) {
	for _, result := range []domain.BuildResult{domain.ResultFailure, domain.ResultAborted, domain.ResultNotBuilt, ""} {
		t.Run(fmt.Sprintf("result %q", result), func(t *testing.T) {
			current, _ := chain([]*fakeBuild{{result: result, tree: tree("x")}})
			logger, _ := testLogger()

			got, number, err := FindReference(current, logger)
			require.NoError(t, err)
			assert.Nil(t, got)
			assert.Zero(t, number)
		})
	}
}

func TestFindReference_SkipsBuildsWithoutReports(t *testing.T) {
	current, _ := chain([]*fakeBuild{
		{result: domain.ResultSuccess, tree: tree("with-report")},
		{result: domain.ResultSuccess},
		{result: domain.ResultSuccess, treeErr: fmt.Errorf("%w: bad xml", report.ErrMalformed)},
	})
	logger, buf := testLogger()

	got, number, err := FindReference(current, logger)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, number)
	assert.Contains(t, buf.String(), "Skipping build with unreadable test report")
}

func TestFindReference_BoundedScan(t *testing.T) {
	prior := make([]*fakeBuild, 25)
	for i := range prior {
		prior[i] = &fakeBuild{result: domain.ResultFailure, tree: tree("x")}
	}
	// Builds 1-5 are older than the search window and would qualify
	for i := 0; i < 5; i++ {
		prior[i].result = domain.ResultSuccess
	}
	current, examined := chain(prior)
	logger, _ := testLogger()

	got, _, err := FindReference(current, logger)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.Len(t, *examined, MaxBuildsToSearch)
	assert.Equal(t, 25, (*examined)[0])
	assert.Equal(t, 6, (*examined)[MaxBuildsToSearch-1])
}

func TestFindReference_EmptyHistory(t *testing.T) {
	current, _ := chain(nil)
	logger, _ := testLogger()

	got, number, err := FindReference(current, logger)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, number)
}

func TestFindReference_PropagatesIOErrors(t *testing.T) {
	ioErr := errors.New("disk gone")

	t.Run("walking the chain", func(t *testing.T) {
		current, _ := chain(nil)
		current.prevErr = ioErr
		logger, _ := testLogger()

		_, _, err := FindReference(current, logger)
		assert.ErrorIs(t, err, ioErr)
	})

	t.Run("loading a report", func(t *testing.T) {
		current, _ := chain([]*fakeBuild{{result: domain.ResultSuccess, treeErr: ioErr}})
		logger, _ := testLogger()

		_, _, err := FindReference(current, logger)
		assert.ErrorIs(t, err, ioErr)
	})
}
