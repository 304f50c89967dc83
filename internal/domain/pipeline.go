package domain

import "fmt"

const (
	StageSource = "Source"
	StageBuild  = "build"

	ActionSource = "CodeCommit"
	ActionBuild  = "Build"

	ArtifactSource = "SourceOutput"
	ArtifactBuild  = "BuildOutput"
)

type ActionSpec struct {
	Name    string
	Inputs  []string
	Outputs []string
}

type StageSpec struct {
	Name    string
	Actions []ActionSpec
}

// PipelineLayout is the ordered stage list of the deploy pipeline.
type PipelineLayout []StageSpec

// Layout returns the fixed Source -> build layout.
func Layout() PipelineLayout {
	return PipelineLayout{
		{
			Name: StageSource,
			Actions: []ActionSpec{
				{Name: ActionSource, Outputs: []string{ArtifactSource}},
			},
		},
		{
			Name: StageBuild,
			Actions: []ActionSpec{
				{Name: ActionBuild, Inputs: []string{ArtifactSource}, Outputs: []string{ArtifactBuild}},
			},
		},
	}
}

func (l PipelineLayout) StageNames() []string {
	out := make([]string, 0, len(l))
	for _, s := range l {
		out = append(out, s.Name)
	}
	return out
}

// Validate checks that every artifact is produced once and only consumed by
// a later stage than the one producing it.
func (l PipelineLayout) Validate() error {
	if len(l) < 2 {
		return fmt.Errorf("pipeline needs at least 2 stages, got %d", len(l))
	}

	stages := make(map[string]bool, len(l))
	produced := make(map[string]int)

	for i, s := range l {
		if s.Name == "" {
			return fmt.Errorf("stage %d has no name", i)
		}
		if stages[s.Name] {
			return fmt.Errorf("duplicate stage %q", s.Name)
		}
		stages[s.Name] = true

		if len(s.Actions) == 0 {
			return fmt.Errorf("stage %q has no actions", s.Name)
		}

		for _, a := range s.Actions {
			for _, in := range a.Inputs {
				at, ok := produced[in]
				if !ok {
					return fmt.Errorf("action %q consumes %q before it is produced", a.Name, in)
				}
				if at >= i {
					return fmt.Errorf("action %q consumes %q in the stage that produces it", a.Name, in)
				}
			}
		}

		for _, a := range s.Actions {
			for _, out := range a.Outputs {
				if _, dup := produced[out]; dup {
					return fmt.Errorf("artifact %q produced twice", out)
				}
				produced[out] = i
			}
		}
	}

	return nil
}
