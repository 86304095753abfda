package main

import (
	"context"
	"os"
	"time"

	"opscrm/internal/common/models"
	"opscrm/internal/config"
	"opscrm/internal/database"
	"opscrm/internal/features/permission"
	"opscrm/internal/features/role"
	"opscrm/internal/features/user"
	"opscrm/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func seedRoles() []role.Role {
	now := time.Now()
	return []role.Role{
		{
			Key:  "admin",
			Name: "Admin",
			// Stored permissions on the admin role are decorative; the
			// resolver always grants the full catalog for the admin key.
			Permissions: []string{permission.KeyAdmin},
			IsSystem:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			Key:  "manager",
			Name: "Manager",
			Permissions: []string{
				permission.KeyLeadsView, permission.KeyLeadsCreate, permission.KeyLeadsEdit, permission.KeyLeadsConvert,
				permission.KeyCustomersView, permission.KeyCustomersCreate, permission.KeyCustomersEdit,
				permission.KeyProjectsView, permission.KeyProjectsCreate, permission.KeyProjectsEdit,
				permission.KeyTasksView, permission.KeyTasksCreate, permission.KeyTasksEdit, permission.KeyTasksReassign,
				permission.KeyQuotationsView, permission.KeyQuotationsCreate, permission.KeyQuotationsEdit,
				permission.KeyPORequestsView, permission.KeyPORequestsApprove,
				permission.KeyUsersView,
				permission.KeyReportsExport,
			},
			IsSystem:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			Key:  "sales",
			Name: "Sales",
			Permissions: []string{
				permission.KeyLeadsView, permission.KeyLeadsCreate, permission.KeyLeadsEdit, permission.KeyLeadsConvert,
				permission.KeyCustomersView, permission.KeyCustomersCreate,
				permission.KeyTasksView, permission.KeyTasksCreate,
				permission.KeyQuotationsView, permission.KeyQuotationsCreate, permission.KeyQuotationsEdit,
				permission.KeyPORequestsView, permission.KeyPORequestsCreate,
			},
			IsSystem:  true,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func Seed(
	lc fx.Lifecycle,
	roleRepo role.RoleRepository,
	userRepo user.UserRepository,
	zlog *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						zlog.Error("Failed to shutdown", zap.Error(err))
					}
				}()

				tenantHex := os.Getenv("SEED_TENANT_ID")
				if tenantHex == "" {
					tenantHex = primitive.NewObjectID().Hex()
				}

				seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				seedCtx = context.WithValue(seedCtx, models.TenantIDKey, tenantHex)

				zlog.Info("Seeding tenant", zap.String("tenant_id", tenantHex))

				for _, r := range seedRoles() {
					if existing, err := roleRepo.FindByKey(seedCtx, r.Key); err == nil && existing != nil {
						zlog.Info("Role exists, skipping", zap.String("key", r.Key))
						continue
					}
					seeded := r
					seeded.ID = primitive.NewObjectID()
					if err := roleRepo.Create(seedCtx, &seeded); err != nil {
						zlog.Error("Failed to seed role", zap.String("key", r.Key), zap.Error(err))
						return
					}
					zlog.Info("Seeded role", zap.String("key", r.Key))
				}

				adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
				if adminEmail == "" {
					adminEmail = "admin@example.com"
				}
				adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
				if adminPassword == "" {
					adminPassword = "changeme"
				}

				if _, err := userRepo.FindByEmail(seedCtx, adminEmail); err == nil {
					zlog.Info("Admin user exists, skipping", zap.String("email", adminEmail))
					return
				}

				hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
				if err != nil {
					zlog.Error("Failed to hash admin password", zap.Error(err))
					return
				}

				admin := &models.User{
					ID:        primitive.NewObjectID(),
					Email:     adminEmail,
					Password:  string(hashed),
					FullName:  "Administrator",
					Active:    true,
					RoleKey:   "admin",
					CreatedAt: time.Now(),
					UpdatedAt: time.Now(),
				}
				if err := userRepo.Create(seedCtx, admin); err != nil {
					zlog.Error("Failed to seed admin user", zap.Error(err))
					return
				}

				zlog.Info("Seeded admin user", zap.String("email", adminEmail))
			}()
			return nil
		},
	})
}

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			database.NewDatabase,
			logger.NewLogger,
			role.NewRoleRepository,
			user.NewUserRepository,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	)

	app.Run()
}
