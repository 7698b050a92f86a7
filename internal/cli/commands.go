package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hmax-erp/reserva-online-go/pkg/reservaonline"
	"github.com/spf13/cobra"
)

func (r *runner) portalsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portals",
		Short: "Map and list booking portals",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "map <name> <integrator-id> [site]",
			Short: "Register a portal under the integrator's id",
			Args:  cobra.RangeArgs(2, 3),
			RunE: func(cmd *cobra.Command, args []string) error {
				site := ""
				if len(args) == 3 {
					site = args[2]
				}
				if r.rawOnly() {
					return r.printRaw(r.client.Raw().MapPortal(cmd.Context(), args[0], args[1], site))
				}
				res, err := r.client.MapPortal(cmd.Context(), args[0], args[1], site)
				if err != nil {
					return err
				}
				return r.printJSON(res)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List mapped portals",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if r.rawOnly() {
					return r.printRaw(r.client.Raw().ListPortals(cmd.Context()))
				}
				portals, err := r.client.ListPortals(cmd.Context())
				if err != nil {
					return err
				}
				return r.printJSON(portals)
			},
		},
	)
	return cmd
}

func (r *runner) integratorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integrator",
		Short: "Read or replace the integrator callback configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Show the integrator configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if r.rawOnly() {
					return r.printRaw(r.client.Raw().GetIntegratorConfig(cmd.Context()))
				}
				cfg, err := r.client.GetIntegratorConfig(cmd.Context())
				if err != nil {
					return err
				}
				return r.printJSON(cfg)
			},
		},
		&cobra.Command{
			Use:   "set <file>",
			Short: "Replace the integrator configuration from a JSON/YAML file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var cfg reservaonline.IntegratorConfig
				if err := readInput(args[0], &cfg); err != nil {
					return err
				}
				if r.rawOnly() {
					return r.printRaw(r.client.Raw().SetIntegratorConfig(cmd.Context(), cfg))
				}
				res, err := r.client.SetIntegratorConfig(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				return r.printJSON(res)
			},
		},
	)
	return cmd
}

func (r *runner) cardsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Payment card brands accepted by the hub",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List card brands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if r.rawOnly() {
				return r.printRaw(r.client.Raw().ListCards(cmd.Context()))
			}
			cards, err := r.client.ListCards(cmd.Context())
			if err != nil {
				return err
			}
			return r.printJSON(cards)
		},
	})
	return cmd
}

func (r *runner) hotelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hotel",
		Short: "Read or update the hotel configuration (hotel credentials required)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Show the hotel configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if r.rawOnly() {
					return r.printRaw(r.client.Raw().GetHotelConfig(cmd.Context(), nil))
				}
				cfg, err := r.client.GetHotelConfig(cmd.Context(), nil)
				if err != nil {
					return err
				}
				return r.printJSON(cfg)
			},
		},
		&cobra.Command{
			Use:   "set <file>",
			Short: "Update the hotel configuration from a JSON/YAML file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var cfg reservaonline.HotelConfig
				if err := readInput(args[0], &cfg); err != nil {
					return err
				}
				if r.rawOnly() {
					return r.printRaw(r.client.Raw().SetHotelConfig(cmd.Context(), cfg, nil))
				}
				res, err := r.client.SetHotelConfig(cmd.Context(), cfg, nil)
				if err != nil {
					return err
				}
				return r.printJSON(res)
			},
		},
	)
	return cmd
}

func (r *runner) roomTypesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room-types",
		Short: "Room categories registered for the hotel",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List room types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if r.rawOnly() {
				return r.printRaw(r.client.Raw().ListRoomTypes(cmd.Context(), nil))
			}
			types, err := r.client.ListRoomTypes(cmd.Context(), nil)
			if err != nil {
				return err
			}
			return r.printJSON(types)
		},
	})
	return cmd
}

func (r *runner) reservationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reservations",
		Short: "Push reservations to the hub",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "submit <file>",
		Short: "Submit the reservations listed in a JSON/YAML file, unchanged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var reservations []json.RawMessage
			if err := readInput(args[0], &reservations); err != nil {
				return err
			}
			if r.rawOnly() {
				return r.printRaw(r.client.Raw().SubmitReservations(cmd.Context(), reservations, nil))
			}
			res, err := r.client.SubmitReservations(cmd.Context(), reservations, nil)
			if err != nil {
				return err
			}
			return r.printJSON(res)
		},
	})
	return cmd
}

func (r *runner) inventoryCommand() *cobra.Command {
	var (
		hideUnmapped bool
		roomTypes    []string
	)
	cmd := &cobra.Command{
		Use:   "inventory <start> <end>",
		Short: "Show availability per room type between two dates (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := reservaonline.ParseDate(args[0])
			if err != nil {
				return fmt.Errorf("invalid start date: %w", err)
			}
			end, err := reservaonline.ParseDate(args[1])
			if err != nil {
				return fmt.Errorf("invalid end date: %w", err)
			}

			opts := &reservaonline.InventoryOptions{HideUnmapped: hideUnmapped}
			if cmd.Flags().Changed("types") {
				opts.RoomTypes = make([]string, 0, len(roomTypes))
				for _, id := range roomTypes {
					if id = strings.TrimSpace(id); id != "" {
						opts.RoomTypes = append(opts.RoomTypes, id)
					}
				}
			}

			if r.rawOnly() {
				return r.printRaw(r.client.Raw().GetInventory(cmd.Context(), start, end, nil, opts))
			}
			entries, err := r.client.GetInventory(cmd.Context(), start, end, nil, opts)
			if err != nil {
				return err
			}
			return r.printJSON(entries)
		},
	}
	cmd.Flags().BoolVar(&hideUnmapped, "hide-unmapped", false, "Drop room types not mapped by the integrator")
	cmd.Flags().StringSliceVar(&roomTypes, "types", nil, "Restrict to room type ids (comma separated)")
	return cmd
}

func (r *runner) echoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "echo <text>",
		Short: "Round-trip text through the hub (legacy dialect)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := r.client.Echo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return r.printEnvelope(env)
		},
	}
}

func (r *runner) routesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the routes the hub exposes (legacy dialect)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := r.client.ListRoutes(cmd.Context())
			if err != nil {
				return err
			}
			return r.printEnvelope(env)
		},
	}
}
