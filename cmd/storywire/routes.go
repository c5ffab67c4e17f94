package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"storywire/route"
)

func newRoutesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the operation route table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := route.Names()
			sort.Strings(names)
			for _, name := range names {
				desc, err := route.Lookup(name)
				if err != nil {
					return err
				}
				cmd.Println(fmt.Sprintf("%-30s %-4s %s", desc.Name, desc.Method, desc.PathTemplate))
			}
			return nil
		},
	}
}
