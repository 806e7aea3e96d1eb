package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/benchdraw/pkg/catalog"
	"github.com/matzehuels/benchdraw/pkg/diagram"
	"github.com/matzehuels/benchdraw/pkg/errors"
)

// Default MongoDB names.
const (
	DefaultDatabase   = "benchdraw"
	DefaultCollection = "diagrams"
)

// Mongo stores diagrams in a MongoDB collection keyed by path.
type Mongo struct {
	client *mongo.Client // nil when constructed from a collection
	coll   *mongo.Collection
}

var _ diagram.Store = (*Mongo)(nil)

type diagramDoc struct {
	Key        string         `bson:"_id"`
	Name       string         `bson:"name"`
	Components []componentDoc `bson:"components"`
	Edges      []edgeDoc      `bson:"edges,omitempty"`
	UpdatedAt  time.Time      `bson:"updated_at"`
}

type componentDoc struct {
	Name     string            `bson:"name"`
	Latex    string            `bson:"latex"`
	Params   map[string]string `bson:"params"`
	Position []float64         `bson:"position"`
}

type edgeDoc struct {
	Source int    `bson:"source"`
	Target int    `bson:"target"`
	Style  string `bson:"style,omitempty"`
}

// NewMongo connects to uri and verifies the connection. An empty database
// uses [DefaultDatabase].
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Mongo{client: client, coll: client.Database(database).Collection(DefaultCollection)}, nil
}

// NewMongoFromCollection wraps an existing collection. Close is a no-op.
func NewMongoFromCollection(coll *mongo.Collection) *Mongo {
	return &Mongo{coll: coll}
}

// Load reads the diagram stored under path.
func (m *Mongo) Load(ctx context.Context, path string) (*diagram.Diagram, error) {
	var doc diagramDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": path}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "diagram %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	d := fromDoc(doc)
	d.SourcePath = path
	return d, nil
}

// Save upserts d under path, or under d.SourcePath when path is empty.
func (m *Mongo) Save(ctx context.Context, d *diagram.Diagram, path string) error {
	if path == "" {
		path = d.SourcePath
	}
	if path == "" {
		return errors.New(errors.ErrCodeInvalidPath, "no key given and diagram has no source")
	}

	doc := toDoc(d, path)
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": path}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	d.SourcePath = path
	return nil
}

// List returns stored keys, most recently updated first.
func (m *Mongo) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := m.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list diagrams: %w", err)
	}
	defer cur.Close(ctx)

	var keys []string
	for cur.Next(ctx) {
		var row struct {
			Key string `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode key: %w", err)
		}
		keys = append(keys, row.Key)
	}
	return keys, cur.Err()
}

// Delete removes the diagram stored under path.
func (m *Mongo) Delete(ctx context.Context, path string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": path}); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}

// Close disconnects the client if this store owns it.
func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}

func toDoc(d *diagram.Diagram, key string) diagramDoc {
	doc := diagramDoc{
		Key:        key,
		Name:       d.Name,
		Components: make([]componentDoc, len(d.Components)),
		UpdatedAt:  time.Now().UTC(),
	}
	for i, c := range d.Components {
		params := map[string]string(c.Params)
		if params == nil {
			params = map[string]string{}
		}
		doc.Components[i] = componentDoc{
			Name:     c.Name,
			Latex:    c.Markup,
			Params:   params,
			Position: []float64{c.Position.X, c.Position.Y},
		}
	}
	for _, e := range d.Edges {
		doc.Edges = append(doc.Edges, edgeDoc(e))
	}
	return doc
}

func fromDoc(doc diagramDoc) *diagram.Diagram {
	d := diagram.New(doc.Name)
	for _, c := range doc.Components {
		var pos diagram.Position
		if len(c.Position) == 2 {
			pos = diagram.Position{X: c.Position[0], Y: c.Position[1]}
		}
		d.Add(diagram.Component{
			Name:     c.Name,
			Markup:   c.Latex,
			Params:   catalog.Params(c.Params),
			Position: pos,
		})
	}
	// Edges left dangling by an external edit are dropped.
	n := len(doc.Components)
	for _, e := range doc.Edges {
		if e.Source < 0 || e.Source >= n || e.Target < 0 || e.Target >= n {
			continue
		}
		d.Edges = append(d.Edges, diagram.Edge(e))
	}
	return d
}
