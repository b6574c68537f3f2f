package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/spherical-ai/esg-assistant/cmd/esg-assistant/ui"
	"github.com/spherical-ai/esg-assistant/internal/domain"
)

var (
	scoreMaterial   string
	scoreWeight     float64
	scoreRecyclable bool
	scoreRenewable  bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score the sustainability of a packaging design",
	Long: `Ask for a sustainability score out of 10 with a justification and
recommendations. Without --material the parameters are asked interactively.`,
	Example: `  esg-assistant score --material glass --weight 150 --recyclable`,
	Args:    cobra.NoArgs,
	RunE:    runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreMaterial, "material", "m", "", "packaging material ("+domain.MaterialNames()+")")
	scoreCmd.Flags().Float64VarP(&scoreWeight, "weight", "w", 100, "packaging weight in grams")
	scoreCmd.Flags().BoolVar(&scoreRecyclable, "recyclable", false, "the packaging is recyclable")
	scoreCmd.Flags().BoolVar(&scoreRenewable, "renewable", false, "the packaging is made from renewable resources")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	params := domain.PackagingParams{
		Material:    domain.Material(scoreMaterial),
		WeightGrams: scoreWeight,
		Recyclable:  scoreRecyclable,
		Renewable:   scoreRenewable,
	}
	if scoreMaterial == "" {
		var err error
		params, err = promptPackaging(ctx, ui.NewLineReader(cmd.InOrStdin()), params)
		if err != nil {
			return err
		}
	}
	if err := params.Validate(); err != nil {
		return err
	}

	status := newStatusReporter()
	status.waitingFor("Scoring packaging...")

	a, err := loadApp(ctx, status)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.service.ScorePackaging(ctx, params)
	if err != nil {
		return err
	}

	ui.Section("Sustainability Score")
	ui.Message("%s", result.Text)
	ui.Newline()
	printDocumentNotes(result)
	return nil
}

// promptPackaging asks for each packaging parameter, using defaults as the
// suggested answers.
func promptPackaging(ctx context.Context, in *ui.LineReader, defaults domain.PackagingParams) (domain.PackagingParams, error) {
	params := defaults

	choices := make([]string, len(domain.Materials))
	for i, m := range domain.Materials {
		choices[i] = string(m)
	}

	material, err := in.PromptChoice(ctx, "Packaging material:", choices)
	if err != nil {
		return params, err
	}
	params.Material = domain.Material(material)

	if params.WeightGrams, err = in.PromptFloat(ctx, "Weight (grams)", defaults.WeightGrams); err != nil {
		return params, err
	}
	if params.Recyclable, err = in.Confirm(ctx, "Is it recyclable?", defaults.Recyclable); err != nil {
		return params, err
	}
	if params.Renewable, err = in.Confirm(ctx, "Made from renewable resources?", defaults.Renewable); err != nil {
		return params, err
	}
	return params, nil
}
