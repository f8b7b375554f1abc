package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func RatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Exchange rate snapshots",
	}

	cmd.AddCommand(ratesShowCmd(), ratesRefreshCmd(), ratesSetCmd())
	return cmd
}

func ratesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the latest snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			snapshot, err := a.RateService.Latest()
			if err != nil {
				return err
			}
			fmt.Printf("BRL %s  USD %s  EUR %s  (updated %s)\n",
				snapshot.BRL, snapshot.USD, snapshot.EUR, snapshot.UpdatedAt.Format("2006-01-02 15:04"))
			return nil
		},
	}
}

func ratesRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch current quotes and store a new snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			snapshot, err := a.RateService.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("USD %s  EUR %s\n", snapshot.USD, snapshot.EUR)
			return nil
		},
	}
}

func ratesSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <usd> <eur>",
		Short: "Store a manual snapshot (BRL per unit)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			usd, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid usd rate: %w", err)
			}
			eur, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid eur rate: %w", err)
			}

			a, err := loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = a.RateService.Set(usd, eur)
			return err
		},
	}
}
