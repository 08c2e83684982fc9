package loader

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const (
	neo4jConnectTimeout = 10 * time.Second
	neo4jReadTimeout    = 30 * time.Second

	// DefaultEntityLabel is the node label read when none is configured.
	DefaultEntityLabel = "Entity"
)

var labelPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Neo4jConfig holds the connection settings of a Neo4jSource.
type Neo4jConfig struct {
	URI         string
	Username    string
	Password    string
	Database    string
	EntityLabel string
}

// rowFetcher runs a read query and returns each record as a column map.
type rowFetcher func(ctx context.Context, query string) ([]map[string]any, error)

// Neo4jSource reads entities and relationships from a Neo4j database. Entity
// nodes carry id, name, type, status and knowledge_source properties;
// relationships between them carry relation (falling back to the
// relationship type), confidence and evidence.
type Neo4jSource struct {
	driver neo4j.DriverWithContext
	cfg    Neo4jConfig
	fetch  rowFetcher
	logger *slog.Logger
}

// NewNeo4jSource connects to Neo4j and verifies connectivity.
func NewNeo4jSource(ctx context.Context, cfg Neo4jConfig, logger *slog.Logger) (*Neo4jSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.EntityLabel == "" {
		cfg.EntityLabel = DefaultEntityLabel
	}
	if !labelPattern.MatchString(cfg.EntityLabel) {
		return nil, fmt.Errorf("invalid neo4j entity label %q", cfg.EntityLabel)
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver for %s: %w", cfg.URI, err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, neo4jConnectTimeout)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verifying neo4j connection at %s: %w", cfg.URI, err)
	}

	s := &Neo4jSource{driver: driver, cfg: cfg, logger: logger}
	s.fetch = s.query
	return s, nil
}

// Describe implements Source.
func (s *Neo4jSource) Describe() string {
	return fmt.Sprintf("neo4j:%s/%s", s.cfg.URI, s.cfg.Database)
}

// Close releases the driver.
func (s *Neo4jSource) Close(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Close(ctx)
}

// Load implements Source.
func (s *Neo4jSource) Load(ctx context.Context) (*Document, error) {
	ctx, cancel := context.WithTimeout(ctx, neo4jReadTimeout)
	defer cancel()

	label := s.cfg.EntityLabel
	entityRows, err := s.fetch(ctx, fmt.Sprintf(
		"MATCH (e:%s) RETURN e.id AS id, e.name AS name, e.type AS type, "+
			"e.status AS status, e.knowledge_source AS knowledge_source ORDER BY e.id", label))
	if err != nil {
		return nil, fmt.Errorf("reading neo4j entities: %w", err)
	}

	relRows, err := s.fetch(ctx, fmt.Sprintf(
		"MATCH (s:%s)-[r]->(t:%s) RETURN s.id AS source, t.id AS target, "+
			"coalesce(r.relation, type(r)) AS relation, r.confidence AS confidence, "+
			"r.evidence AS evidence ORDER BY elementId(r)", label, label))
	if err != nil {
		return nil, fmt.Errorf("reading neo4j relationships: %w", err)
	}

	doc := &Document{
		Entities:      make([]RawEntity, 0, len(entityRows)),
		Relationships: make([]RawRelationship, 0, len(relRows)),
	}
	for _, row := range entityRows {
		doc.Entities = append(doc.Entities, entityFromRow(row))
	}
	for _, row := range relRows {
		doc.Relationships = append(doc.Relationships, relationshipFromRow(row))
	}

	s.logger.Debug("loader: read neo4j graph",
		"entities", len(doc.Entities), "relationships", len(doc.Relationships))
	return doc, nil
}

func (s *Neo4jSource) query(ctx context.Context, query string) ([]map[string]any, error) {
	opts := []neo4j.ExecuteQueryConfigurationOption{neo4j.ExecuteQueryWithReadersRouting()}
	if s.cfg.Database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(s.cfg.Database))
	}
	res, err := neo4j.ExecuteQuery(ctx, s.driver, query, nil, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]any, 0, len(res.Records))
	for _, rec := range res.Records {
		rows = append(rows, rec.AsMap())
	}
	return rows, nil
}

func entityFromRow(row map[string]any) RawEntity {
	return RawEntity{
		ID:              stringValue(row["id"]),
		Name:            stringValue(row["name"]),
		Type:            stringValue(row["type"]),
		Status:          stringValue(row["status"]),
		KnowledgeSource: stringValue(row["knowledge_source"]),
	}
}

func relationshipFromRow(row map[string]any) RawRelationship {
	r := RawRelationship{
		Source:   stringValue(row["source"]),
		Target:   stringValue(row["target"]),
		Relation: stringValue(row["relation"]),
	}
	switch v := row["confidence"].(type) {
	case float64:
		r.Confidence = &v
	case int64:
		f := float64(v)
		r.Confidence = &f
	}
	if v, ok := row["evidence"].(string); ok {
		r.Evidence = &v
	}
	return r
}

// stringValue converts a Neo4j property to a string; null becomes "".
func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
