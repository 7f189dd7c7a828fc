package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/tutofast/tutofast-api/internal/models"
)

type semesterSeedRepository interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, semester *models.Semester) error
}

type courseSeedRepository interface {
	Create(ctx context.Context, course *models.Course) error
}

// SeedService loads the fixed semester/course catalog into an empty
// database at startup. It never aborts startup: a failed count triggers
// one unconditional load attempt, and load failures are only logged.
type SeedService struct {
	semesters semesterSeedRepository
	courses   courseSeedRepository
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewSeedService constructs the service.
func NewSeedService(semesters semesterSeedRepository, courses courseSeedRepository, metrics *MetricsService, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{semesters: semesters, courses: courses, metrics: metrics, logger: logger}
}

// Run checks whether the catalog is populated and loads it when empty.
func (s *SeedService) Run(ctx context.Context) {
	s.logger.Info("checking if initial catalog needs to be loaded")

	count, err := s.semesters.Count(ctx)
	if err != nil {
		s.logger.Error("catalog count failed, attempting to load initial data anyway", zap.Error(err))
		if loadErr := s.load(ctx); loadErr != nil {
			s.metrics.RecordSeedRun("failed")
			s.logger.Error("failed to load initial catalog", zap.Error(loadErr))
			return
		}
		s.metrics.RecordSeedRun("loaded")
		s.logger.Info("initial catalog loaded after count error")
		return
	}

	if count > 0 {
		s.metrics.RecordSeedRun("skipped")
		s.logger.Info("existing semesters found, skipping catalog initialization", zap.Int("count", count))
		return
	}

	if err := s.load(ctx); err != nil {
		s.metrics.RecordSeedRun("failed")
		s.logger.Error("failed to load initial catalog", zap.Error(err))
		return
	}
	s.metrics.RecordSeedRun("loaded")
	s.logger.Info("initial catalog loaded")
}

// load inserts each semester and then its courses. The two steps are
// deliberately separate statements; the catalog is only ever loaded into
// an empty database, so partial state on failure is tolerated.
func (s *SeedService) load(ctx context.Context) error {
	for _, entry := range seedCatalog() {
		semester := models.Semester{Name: entry.name}
		if err := s.semesters.Create(ctx, &semester); err != nil {
			return err
		}
		for _, c := range entry.courses {
			course := models.Course{
				Name:        c.name,
				Description: c.description,
				Cycle:       c.cycle,
				SemesterID:  semester.ID,
			}
			if err := s.courses.Create(ctx, &course); err != nil {
				return err
			}
		}
		s.logger.Info("seeded semester",
			zap.String("semester", semester.Name),
			zap.Int("courses", len(entry.courses)))
	}
	return nil
}

type seedCourse struct {
	name        string
	description string
	cycle       int
}

type seedSemester struct {
	name    string
	courses []seedCourse
}

// seedCatalog returns the eight fixed semesters with their courses.
func seedCatalog() []seedSemester {
	return []seedSemester{
		{name: "First", courses: []seedCourse{
			{"Introducción a los Algoritmos", "Fundamentos de algoritmos y su aplicación.", 1},
		}},
		{name: "Second", courses: []seedCourse{
			{"Algoritmos", "Estudio de algoritmos avanzados y su análisis.", 2},
		}},
		{name: "Third", courses: []seedCourse{
			{"Algoritmos y Estructuras de Datos", "Estructuras de datos y su uso en algoritmos.", 3},
			{"Diseño y Patrones de Software", "Principios de diseño y patrones de software.", 3},
		}},
		{name: "Fourth", courses: []seedCourse{
			{"Diseño de Base de Datos", "Modelado y diseño de bases de datos.", 4},
			{"IHC y Tecnologías Móviles", "Interacción Humano-Computadora y desarrollo móvil.", 4},
		}},
		{name: "Fifth", courses: []seedCourse{
			{"Aplicaciones Web", "Desarrollo de aplicaciones para la web.", 5},
			{"Desarrollo de Aplicaciones Open Source", "Principios y prácticas del desarrollo Open Source.", 5},
		}},
		{name: "Sixth", courses: []seedCourse{
			{"Aplicaciones para Dispositivos Móviles", "Desarrollo de aplicaciones para móviles.", 6},
			{"Complejidad Algorítmica", "Estudio de la complejidad de algoritmos.", 6},
		}},
		{name: "Seventh", courses: []seedCourse{
			{"Diseño de Experimentos de Ingeniería de Software", "Diseño de experimentos en el contexto del software.", 7},
			{"Fundamentos de Arquitectura de Software", "Principios de arquitectura de software.", 7},
		}},
		{name: "Eighth", courses: []seedCourse{
			{"Arquitecturas de Software Emergentes", "Nuevas tendencias en arquitecturas de software.", 8},
			{"Gerencia de Proyectos en Computación", "Gestión de proyectos en el ámbito de la computación.", 8},
		}},
	}
}
