package main

import (
	"context"
	"fmt"
	"log"
	"time"

	common_api "opscrm/internal/common/api"
	"opscrm/internal/config"
	"opscrm/internal/database"
	"opscrm/internal/features/activity"
	"opscrm/internal/features/auth"
	"opscrm/internal/features/customer"
	"opscrm/internal/features/export"
	"opscrm/internal/features/lead"
	"opscrm/internal/features/notification"
	"opscrm/internal/features/porequest"
	"opscrm/internal/features/project"
	"opscrm/internal/features/quotation"
	"opscrm/internal/features/role"
	"opscrm/internal/features/system"
	"opscrm/internal/features/task"
	"opscrm/internal/features/user"
	"opscrm/internal/logger"
	"opscrm/internal/middleware"
	"opscrm/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware())

	return app
}

// AsRoute tags a constructor so Fx collects it into the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	for _, route := range routes {
		route.Setup(app)
	}
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	utils.SetSecret(cfg.JWTSecret)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// InitializeIndexes builds the indexes the domain relies on, notably the
// partial unique index guarding lead conversion.
func InitializeIndexes(
	lc fx.Lifecycle,
	zlog *zap.Logger,
	userRepo user.UserRepository,
	roleRepo role.RoleRepository,
	leadRepo lead.LeadRepository,
	customerRepo customer.CustomerRepository,
	taskRepo task.TaskRepository,
	projectRepo project.ProjectRepository,
	quotationRepo quotation.QuotationRepository,
	poRequestRepo porequest.PORequestRepository,
	activityRepo activity.ActivityRepository,
	notificationRepo notification.NotificationRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				ensure := map[string]func(context.Context) error{
					"users":         userRepo.EnsureIndexes,
					"roles":         roleRepo.EnsureIndexes,
					"leads":         leadRepo.EnsureIndexes,
					"customers":     customerRepo.EnsureIndexes,
					"tasks":         taskRepo.EnsureIndexes,
					"projects":      projectRepo.EnsureIndexes,
					"quotations":    quotationRepo.EnsureIndexes,
					"po_requests":   poRequestRepo.EnsureIndexes,
					"activities":    activityRepo.EnsureIndexes,
					"notifications": notificationRepo.EnsureIndexes,
				}
				for name, fn := range ensure {
					if err := fn(ctx); err != nil {
						zlog.Warn("failed to ensure indexes",
							zap.String("collection", name), zap.Error(err))
					}
				}
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
			NewFiberServer,

			// Repositories
			user.NewUserRepository,
			role.NewRoleRepository,
			lead.NewLeadRepository,
			customer.NewCustomerRepository,
			task.NewTaskRepository,
			project.NewProjectRepository,
			quotation.NewQuotationRepository,
			porequest.NewPORequestRepository,
			activity.NewActivityRepository,
			notification.NewNotificationRepository,
			notification.NewPushTokenRepository,

			// Services
			activity.NewActivityService,
			notification.NewEmitter,
			role.NewRoleService,
			auth.NewSessionService,
			user.NewUserService,
			lead.NewLeadService,
			customer.NewCustomerService,
			task.NewTaskService,
			project.NewProjectService,
			quotation.NewQuotationService,
			porequest.NewPORequestService,
			export.NewExportService,
			notification.NewHub,
			notification.NewRetention,

			// Interface adapters
			func(s auth.SessionService) middleware.IdentityResolver { return s },
			func(r user.UserRepository) notification.ActiveUserSource { return r },

			// Controllers
			auth.NewAuthController,
			user.NewUserController,
			role.NewRoleController,
			lead.NewLeadController,
			customer.NewCustomerController,
			task.NewTaskController,
			project.NewProjectController,
			quotation.NewQuotationController,
			porequest.NewPORequestController,
			export.NewExportController,
			activity.NewActivityController,
			notification.NewNotificationController,

			// Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(user.NewUserApi),
			AsRoute(role.NewRoleApi),
			AsRoute(lead.NewLeadApi),
			AsRoute(customer.NewCustomerApi),
			AsRoute(task.NewTaskApi),
			AsRoute(project.NewProjectApi),
			AsRoute(quotation.NewQuotationApi),
			AsRoute(porequest.NewPORequestApi),
			AsRoute(export.NewExportApi),
			AsRoute(activity.NewActivityApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(system.NewHealthApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			RegisterAllRoutesWithAnnotation,
			StartServer,
			InitializeIndexes,
			func(lc fx.Lifecycle, retention *notification.Retention, hub *notification.Hub) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return retention.Start()
					},
					OnStop: func(ctx context.Context) error {
						retention.Stop()
						hub.Shutdown()
						return nil
					},
				})
			},
		),
	)

	app.Run()
}
