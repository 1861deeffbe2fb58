package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/stockmaster-api/internal/application/dto"
	"github.com/jhoicas/stockmaster-api/internal/application/usecase"
	"github.com/jhoicas/stockmaster-api/internal/infrastructure/postgres"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Gestión de usuarios",
}

var userCreateFlags struct {
	email    string
	password string
	role     string
}

// stockctl user create --email ana@empresa.com --password ... --role admin
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Crea un usuario (el primer admin se crea por acá)",
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, log, err := bootDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		users := usecase.NewUserUseCase(postgres.NewUserRepository(pool))
		u, err := users.Register(cmd.Context(), dto.RegisterRequest{
			Email:    userCreateFlags.email,
			Password: userCreateFlags.password,
			Role:     userCreateFlags.role,
		})
		if err != nil {
			return fmt.Errorf("crear usuario: %w", err)
		}
		log.Info().Str("user_id", u.ID).Str("email", u.Email).Str("role", u.Role).Msg("usuario creado")
		return nil
	},
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&userCreateFlags.email, "email", "", "email del usuario")
	f.StringVar(&userCreateFlags.password, "password", "", "password (mínimo 8 caracteres)")
	f.StringVar(&userCreateFlags.role, "role", "staff", "staff | manager | admin")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userCreateCmd)
}
