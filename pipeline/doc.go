// Package pipeline implements the DesignMesh orchestration engine: a
// four-stage state machine (analyze -> plan -> shop -> design) that turns an
// uploaded photo of an empty room into a furnished-room visualization, a
// shopping list and a cost estimate by chaining external capability calls.
//
// Each stage runs inside its own guard. A failed stage records the reason and
// substitutes a documented default so downstream stages always see valid
// data; only an error escaping a stage's guard moves the pipeline to the
// terminal error status. Progress, errors and an incrementally assembled
// markdown report are readable at any point mid-run.
package pipeline
