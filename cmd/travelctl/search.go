package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"travelbot/internal/catalog"
	"travelbot/internal/model"
	"travelbot/internal/service"
)

func newFlightsCmd(opts *options) *cobra.Command {
	var from, to, date, class string

	c := &cobra.Command{
		Use:   "flights",
		Short: "Search two flight offers between a Moroccan city and a destination",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			e, err := loadEnv(ctx)
			if err != nil {
				return err
			}

			origin, err := accepted(e.normalizer.DepartureCity(from, nil))
			if err != nil {
				return err
			}
			destination, err := accepted(e.normalizer.DestinationCity(to, nil))
			if err != nil {
				return err
			}
			if class != "" {
				if class, err = accepted(service.NormalizeClass(class)); err != nil {
					return err
				}
			}

			criteria := model.FlightCriteria{
				Origin:      origin,
				Destination: destination,
				DateText:    date,
				Date:        service.ParseTravelDate(date, time.Now()),
				Class:       class,
			}
			result := e.providers.Flights.Search(ctx, criteria)

			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.FormatFlightResults(criteria, result))
			return nil
		},
	}

	c.Flags().StringVar(&from, "from", "", "departure city")
	c.Flags().StringVar(&to, "to", "", "destination city")
	c.Flags().StringVar(&date, "date", "", "travel date phrase, e.g. \"15 مايو\"")
	c.Flags().StringVar(&class, "class", catalog.ClassEconomy, "travel class")
	_ = c.MarkFlagRequired("from")
	_ = c.MarkFlagRequired("to")
	return c
}

func newHotelsCmd(opts *options) *cobra.Command {
	var city, category, guests, district string

	c := &cobra.Command{
		Use:   "hotels",
		Short: "Search two hotel offers in a Moroccan city",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			e, err := loadEnv(ctx)
			if err != nil {
				return err
			}

			hotelCity, err := accepted(e.normalizer.HotelCity(city, nil))
			if err != nil {
				return err
			}
			hotelCategory, err := accepted(service.NormalizeHotelCategory(category))
			if err != nil {
				return err
			}

			criteria := model.HotelCriteria{
				City:     hotelCity,
				Category: hotelCategory,
				Guests:   service.ParseGuestCount(guests),
				District: strings.TrimSpace(district),
			}
			result := e.providers.Hotels.Search(ctx, criteria)

			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.FormatHotelResults(criteria, result))
			return nil
		},
	}

	c.Flags().StringVar(&city, "city", "", "hotel city")
	c.Flags().StringVar(&category, "category", catalog.CategoryFour, "hotel category, e.g. \"5 نجوم\" or فاخر")
	c.Flags().StringVar(&guests, "guests", "2", "number of guests, digits or words")
	c.Flags().StringVar(&district, "district", "", "preferred district")
	_ = c.MarkFlagRequired("city")
	return c
}

func newStatusCmd(opts *options) *cobra.Command {
	var from, to string

	c := &cobra.Command{
		Use:   "status",
		Short: "Show live flight status on a route",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			e, err := loadEnv(ctx)
			if err != nil {
				return err
			}
			if !e.cfg.Status.Enabled {
				return fmt.Errorf("flight status: %w", service.ErrProviderDisabled)
			}

			origin, err := accepted(e.normalizer.DepartureCity(from, nil))
			if err != nil {
				return err
			}
			destination, err := accepted(e.normalizer.DestinationCity(to, nil))
			if err != nil {
				return err
			}

			report := e.providers.Status.Lookup(ctx, origin, destination)
			if opts.asJSON {
				return printJSON(cmd.OutOrStdout(), report)
			}
			if report == nil {
				fmt.Fprintln(cmd.OutOrStdout(), service.FormatStatusUnavailable(origin, destination))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.FormatStatusReport(report))
			return nil
		},
	}

	c.Flags().StringVar(&from, "from", "", "departure city")
	c.Flags().StringVar(&to, "to", "", "destination city")
	_ = c.MarkFlagRequired("from")
	_ = c.MarkFlagRequired("to")
	return c
}

func newParseDateCmd() *cobra.Command {
	var now string

	c := &cobra.Command{
		Use:   "parse-date <phrase>",
		Short: "Resolve a travel date phrase to YYYY-MM-DD",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := time.Now()
			if now != "" {
				t, err := time.Parse(service.ISODate, now)
				if err != nil {
					return fmt.Errorf("invalid --now: %w", err)
				}
				ref = t
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.FormatTravelDate(strings.Join(args, " "), ref))
			return nil
		},
	}

	c.Flags().StringVar(&now, "now", "", "reference day as YYYY-MM-DD (default today)")
	return c
}

func accepted(n service.Normalized) (string, error) {
	if !n.OK() {
		return "", errors.New(n.Rejection)
	}
	return n.Value, nil
}
