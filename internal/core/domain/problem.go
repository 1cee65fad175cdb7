package domain

// Problem is one dataset entry with its ground truth.
type Problem struct {
	Text   string `json:"problem"`
	Answer string `json:"answer"`
}

// WorkItem is a problem together with its position in the batch.
type WorkItem struct {
	Index   int
	Problem Problem
}

// NewWorkItems numbers problems in order.
func NewWorkItems(problems []Problem) []WorkItem {
	items := make([]WorkItem, len(problems))
	for i, p := range problems {
		items[i] = WorkItem{Index: i, Problem: p}
	}
	return items
}

// Variant is one way of presenting the reasoning trace back to the model.
type Variant string

const (
	// VariantBase lets the model reason freely.
	VariantBase Variant = "base"
	// VariantHidden replays the base reasoning with every visible character redacted.
	VariantHidden Variant = "hidden"
	// VariantNoCoT disables reasoning entirely.
	VariantNoCoT Variant = "nocot"
	// VariantParaphrased rewords each reasoning chunk before the model sees it.
	VariantParaphrased Variant = "paraphrased"
)

// Variants lists every variant in evaluation order.
var Variants = []Variant{VariantBase, VariantHidden, VariantNoCoT, VariantParaphrased}

// Description builds the checkpoint description of a problem under an experiment and variant.
// The experiment name is concatenated without a separator, so "aime_2" and "base"
// produce "aime_2base: <problem>".
func Description(experiment string, v Variant, problemText string) string {
	return experiment + string(v) + ": " + problemText
}

// ExperimentKind selects the dataset source and scoring rule of an experiment.
type ExperimentKind string

const (
	// KindAIME loads competition problems from a file and scores by exact match.
	KindAIME ExperimentKind = "aime"
	// KindArithmetic generates random expressions and scores by relative error.
	KindArithmetic ExperimentKind = "arithmetic"
)

// Experiment is one named evaluation run over a dataset.
type Experiment struct {
	Name      string
	Kind      ExperimentKind
	Source    string
	Samples   int
	Seed      uint64
	Depths    []int
	Tolerance float64
}
