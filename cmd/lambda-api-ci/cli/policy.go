package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/davarch/lambda-api-ci/internal/domain"
	"github.com/davarch/lambda-api-ci/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var policyJSON bool

type grantView struct {
	Name      string   `json:"name"`
	Actions   []string `json:"actions"`
	Resources []string `json:"resources"`
}

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "List the permissions granted to the build project's role",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}

		grants := domain.DeployGrants(cfg.Target())
		items := make([]grantView, 0, len(grants))
		for _, g := range grants {
			v := grantView{Name: g.Name, Actions: g.Actions}
			for _, r := range g.Resources {
				v.Resources = append(v.Resources, resourceString(r, cfg))
			}
			items = append(items, v)
		}

		out := cmd.OutOrStdout()
		if policyJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "GRANT\tACTION\tRESOURCES")
		for _, g := range items {
			res := strings.Join(g.Resources, ",")
			for _, a := range g.Actions {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", g.Name, a, res)
			}
		}
		return w.Flush()
	},
}

func init() {
	policyCmd.Flags().BoolVar(&policyJSON, "json", false, "print JSON")

	rootCmd.AddCommand(policyCmd)
}

// resourceString renders ARNs with the configured account and region,
// falling back to CloudFormation pseudo parameters.
func resourceString(r domain.Resource, cfg config.Config) string {
	if r.Arn == nil {
		return r.Literal
	}

	region, account := cfg.AWS.Region, cfg.AWS.Account
	if region == "" {
		region = "${AWS::Region}"
	}
	if account == "" {
		account = "${AWS::AccountId}"
	}
	return r.Arn.Format("${AWS::Partition}", region, account)
}
