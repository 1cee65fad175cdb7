package dataset_test

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cotfaith/internal/adapters/dataset"
	"go.trai.ch/cotfaith/internal/core/domain"
	"go.trai.ch/cotfaith/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newSource(t *testing.T) *dataset.Source {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	return dataset.NewSource(log)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile_JSONLines(t *testing.T) {
	path := writeFile(t, "aime.jsonl",
		`{"id": 60, "problem": "Find x.", "answer": "033"}`+"\n"+
			"\n"+
			`{"problem": "Find y.", "answer": 204}`+"\n")

	problems, err := dataset.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.Problem{
		{Text: "Find x.", Answer: "033"},
		{Text: "Find y.", Answer: "204"},
	}, problems)
}

func TestLoadFile_JSONArray(t *testing.T) {
	path := writeFile(t, "aime.json", `[{"problem": "Café?", "answer": "1"}]`)

	problems, err := dataset.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.Problem{{Text: "Café?", Answer: "1"}}, problems)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := dataset.LoadFile(filepath.Join(t.TempDir(), "missing.jsonl"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrDatasetReadFailed.Error())

	_, err = dataset.LoadFile(writeFile(t, "bad.jsonl", "{not json}\n"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrDatasetParseFailed.Error())
}

func TestGenerator_Deterministic(t *testing.T) {
	a, err := dataset.NewGenerator(87).Problems(30, []int{2, 3, 4})
	require.NoError(t, err)
	b, err := dataset.NewGenerator(87).Problems(30, []int{2, 3, 4})
	require.NoError(t, err)
	c, err := dataset.NewGenerator(88).Problems(30, []int{2, 3, 4})
	require.NoError(t, err)

	assert.Len(t, a, 30)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

var leafPattern = regexp.MustCompile(`\d+\.\d+`)

func TestGenerator_Shape(t *testing.T) {
	problems, err := dataset.NewGenerator(1).Problems(50, []int{2})
	require.NoError(t, err)

	for _, p := range problems {
		assert.Regexp(t, `^What is the result of \(.+\)\?$`, p.Text)

		for _, lit := range leafPattern.FindAllString(p.Text, -1) {
			v, err := strconv.ParseFloat(lit, 64)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, v, 1.0)
			assert.LessOrEqual(t, v, 11.0)
		}

		_, err := strconv.ParseFloat(p.Answer, 64)
		assert.NoError(t, err)
	}
}

func depth(e domain.Expr) int {
	n, ok := e.(domain.Node)
	if !ok {
		return 0
	}
	return 1 + max(depth(n.Left), depth(n.Right))
}

func TestGenerator_DepthBound(t *testing.T) {
	g := dataset.NewGenerator(7)
	for range 200 {
		e := g.Expr(3)
		d := depth(e)
		assert.GreaterOrEqual(t, d, 1)
		assert.LessOrEqual(t, d, 4)
	}

	// Depth zero still yields a single operation over two literals.
	e := g.Expr(0)
	assert.Equal(t, 1, depth(e))
}

func TestGenerator_NoDepths(t *testing.T) {
	_, err := dataset.NewGenerator(1).Problems(1, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidExperiment.Error())
}

func TestSource_Load(t *testing.T) {
	path := writeFile(t, "aime.jsonl",
		`{"problem": "a", "answer": "1"}`+"\n"+
			`{"problem": "b", "answer": "2"}`+"\n"+
			`{"problem": "c", "answer": "3"}`+"\n")
	src := newSource(t)

	all, err := src.Load(context.Background(), domain.Experiment{Name: "aime", Kind: domain.KindAIME, Source: path})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := src.Load(context.Background(), domain.Experiment{Name: "aime", Kind: domain.KindAIME, Source: path, Samples: 2})
	require.NoError(t, err)
	assert.Equal(t, all[:2], some)

	arith, err := src.Load(context.Background(), domain.Experiment{
		Name: "arithmetic", Kind: domain.KindArithmetic, Samples: 5, Seed: 87, Depths: []int{2, 3, 4},
	})
	require.NoError(t, err)
	assert.Len(t, arith, 5)

	_, err = src.Load(context.Background(), domain.Experiment{Name: "x", Kind: "chess"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrUnknownExperimentKind.Error())
}

func TestSource_LoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSource(t).Load(ctx, domain.Experiment{Kind: domain.KindArithmetic})
	require.ErrorIs(t, err, context.Canceled)
}
