package router

import (
	"github.com/gofiber/fiber/v2"

	applications_handlers "github.com/propelhq/propel-api/handlers/applications"
	cohorts_handlers "github.com/propelhq/propel-api/handlers/cohorts"
	education_handlers "github.com/propelhq/propel-api/handlers/education"
	"github.com/propelhq/propel-api/handlers/health"
	institutions_handlers "github.com/propelhq/propel-api/handlers/institutions"
	points_handlers "github.com/propelhq/propel-api/handlers/points"
	profile_handlers "github.com/propelhq/propel-api/handlers/profile"
	programs_handlers "github.com/propelhq/propel-api/handlers/programs"
	resources_handlers "github.com/propelhq/propel-api/handlers/resources"
	submissions_handlers "github.com/propelhq/propel-api/handlers/submissions"
	teams_handlers "github.com/propelhq/propel-api/handlers/teams"
	"github.com/propelhq/propel-api/services/storage"
	"github.com/propelhq/propel-api/store"
	"github.com/propelhq/propel-api/utils/auth"
	"github.com/propelhq/propel-api/utils/middleware"

	events_handlers "github.com/propelhq/propel-api/handlers/events"
)

// Dependencies carries everything the routes need.
type Dependencies struct {
	Store    *store.Store
	Verifier *auth.Verifier
	Storage  *storage.SpacesClient
	// Bcrypt hash of the service key for machine routes; empty disables them.
	ServiceKeyHash string
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	authMiddleware := middleware.NewAuthMiddleware(deps.Verifier, deps.Store)

	profileHandler := profile_handlers.NewProfileHandler(deps.Store)
	educationHandler := education_handlers.NewEducationHandler(deps.Store)
	institutionHandler := institutions_handlers.NewInstitutionHandler(deps.Store)
	programHandler := programs_handlers.NewProgramHandler(deps.Store)
	cohortHandler := cohorts_handlers.NewCohortHandler(deps.Store)
	applicationHandler := applications_handlers.NewApplicationHandler(deps.Store)
	teamHandler := teams_handlers.NewTeamHandler(deps.Store)
	submissionHandler := submissions_handlers.NewSubmissionHandler(deps.Store, deps.Storage)
	resourceHandler := resources_handlers.NewResourceHandler(deps.Store)
	eventHandler := events_handlers.NewEventHandler(deps.Store)
	pointsHandler := points_handlers.NewPointsHandler(deps.Store)

	apiGroup := app.Group("/api")

	apiGroup.Get("/healthcheck", health.Healthcheck)

	// Authenticated user surface
	user := apiGroup.Group("/user", authMiddleware.Required())
	user.Get("/profile", profileHandler.GetProfile)
	user.Patch("/profile", profileHandler.UpdateProfile)
	user.Get("/onboarding", profileHandler.GetOnboarding)
	user.Post("/onboarding/complete", profileHandler.CompleteOnboarding)
	user.Get("/education", educationHandler.ListEducation)
	user.Post("/education", educationHandler.CreateEducation)
	user.Patch("/education/:id", educationHandler.UpdateEducation)
	user.Get("/applications", applicationHandler.ListApplications)
	user.Get("/points", pointsHandler.GetPoints)

	// Directory and catalog reads
	apiGroup.Get("/institutions", authMiddleware.Required(), institutionHandler.ListInstitutions)
	apiGroup.Get("/institutions/match", authMiddleware.Required(), institutionHandler.MatchInstitution)
	apiGroup.Get("/programs", authMiddleware.Required(), programHandler.ListPrograms)
	apiGroup.Get("/programs/:id", authMiddleware.Required(), programHandler.GetProgram)
	apiGroup.Get("/programs/:id/cohorts", authMiddleware.Required(), programHandler.ListProgramCohorts)
	apiGroup.Get("/programs/:id/resources", authMiddleware.Required(), programHandler.ListProgramResources)
	apiGroup.Get("/programs/:id/events", authMiddleware.Required(), programHandler.ListProgramEvents)

	cohorts := apiGroup.Group("/cohorts", authMiddleware.Required())
	cohorts.Get("/", cohortHandler.ListOpenCohorts)
	cohorts.Get("/:id", cohortHandler.GetCohort)
	cohorts.Get("/:id/resources", cohortHandler.ListCohortResources)
	cohorts.Get("/:id/events", cohortHandler.ListCohortEvents)
	cohorts.Get("/:id/milestones", cohortHandler.ListCohortMilestones)
	cohorts.Get("/:id/teams", cohortHandler.ListCohortTeams)

	apiGroup.Post("/applications", authMiddleware.Required(), applicationHandler.Apply)
	apiGroup.Patch("/applications/:id", authMiddleware.Required(), authMiddleware.RequireStaff(), applicationHandler.UpdateApplication)

	teams := apiGroup.Group("/teams", authMiddleware.Required())
	teams.Post("/", teamHandler.CreateTeam)
	teams.Get("/:id", teamHandler.GetTeam)
	teams.Get("/:id/members", teamHandler.ListMembers)
	teams.Post("/:id/members", teamHandler.AddMember)
	teams.Delete("/:id/members/:contactId", teamHandler.RemoveMember)
	teams.Get("/:id/points", teamHandler.GetTeamPoints)
	teams.Get("/:id/submissions", submissionHandler.ListTeamSubmissions)

	submissions := apiGroup.Group("/submissions", authMiddleware.Required())
	submissions.Post("/", submissionHandler.CreateSubmission)
	submissions.Patch("/:id", submissionHandler.UpdateSubmission)
	submissions.Post("/:id/files", submissionHandler.UploadFile)

	// Resources and events: reads for everyone signed in, writes staff-only
	apiGroup.Get("/resources", authMiddleware.Required(), resourceHandler.ListGlobalResources)
	apiGroup.Post("/resources", authMiddleware.Required(), authMiddleware.RequireStaff(), resourceHandler.CreateResource)
	apiGroup.Patch("/resources/:id", authMiddleware.Required(), authMiddleware.RequireStaff(), resourceHandler.UpdateResource)
	apiGroup.Delete("/resources/:id", authMiddleware.Required(), authMiddleware.RequireStaff(), resourceHandler.DeleteResource)

	apiGroup.Get("/events", authMiddleware.Required(), eventHandler.ListGlobalEvents)
	apiGroup.Post("/events", authMiddleware.Required(), authMiddleware.RequireStaff(), eventHandler.CreateEvent)
	apiGroup.Patch("/events/:id", authMiddleware.Required(), authMiddleware.RequireStaff(), eventHandler.UpdateEvent)
	apiGroup.Delete("/events/:id", authMiddleware.Required(), authMiddleware.RequireStaff(), eventHandler.DeleteEvent)

	apiGroup.Get("/rewards", authMiddleware.Required(), pointsHandler.ListRewards)
	apiGroup.Post("/rewards/claim", authMiddleware.Required(), pointsHandler.ClaimReward)

	// Machine-to-machine routes, keyed rather than token-authenticated
	if deps.ServiceKeyHash != "" {
		apiKey := middleware.NewAPIKeyMiddleware(deps.ServiceKeyHash)
		service := apiGroup.Group("/service", apiKey.Authenticate())
		service.Post("/cohorts/close-expired", serviceCloseExpiredCohorts(deps.Store))
		service.Post("/institutions/refresh", serviceRefreshInstitutions(deps.Store))
	}
}
