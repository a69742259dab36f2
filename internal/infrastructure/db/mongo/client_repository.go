package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sqli-workshop/connaissance-client/internal/core/domain"
)

const collectionClients = "connaissance_clients"

type ClientRepository struct {
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(collectionClients)}
}

// List returns every record sorted by nom then prenom.
func (r *ClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "nom", Value: 1}, {Key: "prenom", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	clients := []*domain.Client{}
	if err := cur.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientRepository) Get(ctx context.Context, id string) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Client
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create upserts the record on its id.
func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stored := c.Clone()
	stored.Ligne2 = domain.NormalizeLigne2(stored.Ligne2)
	if stored.ID == "" {
		stored.ID = domain.NewID()
	}

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": stored.ID}, stored, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// Insert relies on the unique _id index: a duplicate key error means the id
// is taken.
func (r *ClientRepository) Insert(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stored := c.Clone()
	stored.Ligne2 = domain.NormalizeLigne2(stored.Ligne2)
	if stored.ID == "" {
		stored.ID = domain.NewID()
	}

	if _, err := r.col.InsertOne(ctx, stored); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrClientExists
		}
		return nil, err
	}
	return stored, nil
}

func (r *ClientRepository) Update(ctx context.Context, id string, c *domain.Client) (*domain.Client, error) {
	set := bson.M{
		"nom":                 c.Nom,
		"prenom":              c.Prenom,
		"situation_familiale": c.SituationFamiliale,
		"nombre_enfants":      c.NombreEnfants,
	}
	return r.findAndUpdate(ctx, id, adresseUpdate(c.Adresse(), set))
}

func (r *ClientRepository) UpdateAdresse(ctx context.Context, id string, a domain.Adresse) (*domain.Client, error) {
	return r.findAndUpdate(ctx, id, adresseUpdate(a, bson.M{}))
}

func (r *ClientRepository) UpdateSituation(ctx context.Context, id string, s domain.Situation) (*domain.Client, error) {
	return r.findAndUpdate(ctx, id, bson.M{"$set": bson.M{
		"situation_familiale": s.SituationFamiliale,
		"nombre_enfants":      s.NombreEnfants,
	}})
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return r.col.Database().Client().Ping(ctx, nil)
}

// EnsureIndexes creates the indexes used by List.
func (r *ClientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "nom", Value: 1}, {Key: "prenom", Value: 1}},
	})
	return err
}

func (r *ClientRepository) findAndUpdate(ctx context.Context, id string, update bson.M) (*domain.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var c domain.Client
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}
	return &c, nil
}

// adresseUpdate adds the address fields to set. An empty ligne2 is removed
// from the document rather than stored.
func adresseUpdate(a domain.Adresse, set bson.M) bson.M {
	set["ligne1"] = a.Ligne1
	set["code_postal"] = a.CodePostal
	set["ville"] = a.Ville

	update := bson.M{"$set": set}
	if ligne2 := domain.NormalizeLigne2(a.Ligne2); ligne2 != "" {
		set["ligne2"] = ligne2
	} else {
		update["$unset"] = bson.M{"ligne2": ""}
	}
	return update
}
