package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/pgops/cli/internal/ui"
	"github.com/satishbabariya/pgops/geom"
)

// NewCoordsCommand creates the coords command.
func NewCoordsCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "coords",
		Short: "Convert coordinate strings to PostGIS order",
	}
	cmd.PersistentFlags().StringVar(&kind, "wkt", "", "also wrap the result in this geometry kind")

	convert := func(use, short string, fn func(string) (string, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <coordinates>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := fn(args[0])
				if err != nil {
					return err
				}
				return printCoords(out, kind)
			},
		}
	}

	cmd.AddCommand(convert("ol", `Convert OpenLayers "x,y,x,y" to "x y,x y"`, geom.OpenLayersToPostGIS))
	cmd.AddCommand(convert("gml", `Convert GML "x,y x,y" to "x y,x y"`, geom.GMLToPostGIS))
	cmd.AddCommand(newCoordsReverseCommand(&kind))
	return cmd
}

func newCoordsReverseCommand(kind *string) *cobra.Command {
	var sepIn, sepOut string

	cmd := &cobra.Command{
		Use:   "reverse <coordinates>",
		Short: "Swap the x and y of every coordinate pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := geom.ReverseXY(args[0], sepIn, sepOut)
			if err != nil {
				return err
			}
			return printCoords(out, *kind)
		},
	}

	cmd.Flags().StringVar(&sepIn, "in", ",", `separator between values of the input, "," or " "`)
	cmd.Flags().StringVar(&sepOut, "out", ",", "separator between values of the output")
	return cmd
}

func printCoords(coords, kind string) error {
	if kind == "" {
		fmt.Fprintln(ui.Out, coords)
		return nil
	}
	k, err := geom.ParseKind(kind)
	if err != nil {
		return err
	}
	wkt, err := k.WKT(coords)
	if err != nil {
		return err
	}
	fmt.Fprintln(ui.Out, wkt)
	return nil
}
