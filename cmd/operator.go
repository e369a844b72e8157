package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"maintenance_dashboard/internal/logger"
	"maintenance_dashboard/internal/repository"
	"maintenance_dashboard/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newOperatorCmd(v *viper.Viper) *cobra.Command {
	var password string
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an operator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOperatorAdd(cmd.Context(), v, args[0], password, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	add.Flags().StringVar(&password, "password", "", "password (read from stdin when empty)")

	op := &cobra.Command{
		Use:   "operator",
		Short: "Manage dashboard operators",
	}
	op.AddCommand(add)
	return op
}

// runOperatorAdd stores a new operator directly in the local database.
// It works while public sign-up is closed.
func runOperatorAdd(ctx context.Context, v *viper.Viper, username, password string, in io.Reader, out io.Writer) error {
	if password == "" {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	log := logger.Get(v.GetString("log.level"))
	sqlDB, err := openDB(v, log)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	auth := service.NewAuthService(repository.NewRepository(sqlDB).Operators, v.GetString("auth.signing_key"), v.GetDuration("auth.token_ttl"))
	id, err := auth.CreateOperator(ctx, username, password)
	if err != nil {
		return fmt.Errorf("create operator: %w", err)
	}
	fmt.Fprintf(out, "operator %q created (id %d)\n", strings.TrimSpace(username), id)
	return nil
}
