package cli

import (
	"encoding/json"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Hammad-111/HamSync-sub000/internal/client"
	"github.com/Hammad-111/HamSync-sub000/internal/results"
)

func newHistoryCmd(v *viper.Viper) *cobra.Command {
	var opts results.ListOpts
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List calculations saved on the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := client.New(v.GetString("server"), v.GetString("token")).History(cmd.Context(), opts)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if v.GetString("output") == "json" {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}

			table := tablewriter.NewWriter(w)
			table.Header([]string{"ID", "Saved", "Program", "Mode", "Status", "Value", "Tier"})
			var data [][]string
			for _, sv := range list {
				value := "-"
				if sv.Value != nil {
					value = strconv.FormatFloat(*sv.Value, 'f', -1, 64)
				}
				id := sv.ID
				if len(id) > 8 {
					id = id[:8]
				}
				data = append(data, []string{
					id,
					sv.CreatedAt.Local().Format("2006-01-02 15:04"),
					sv.Institution + "/" + sv.Variant,
					string(sv.Mode),
					string(sv.Status),
					value,
					sv.Tier,
				})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			return table.Render()
		},
	}
	cmd.Flags().StringVar(&opts.Institution, "institution", "", "Only this institution")
	cmd.Flags().StringVar(&opts.UserID, "user", "", "Only this user (counselors and admins)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "Maximum rows")
	return cmd
}
