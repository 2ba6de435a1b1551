package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storyforge/models"
)

// ErrNotFound is returned when a lookup by id matches nothing.
var ErrNotFound = errors.New("not found")

// InsertHistoria stores one story document.
func (s *Store) InsertHistoria(ctx context.Context, historia *models.Historia) error {
	_, err := s.historias().InsertOne(ctx, historia)
	return err
}

// InsertContenedor stores a generated container: the story plus all of its
// characters. There is no transaction; a partial failure surfaces as an
// error and the caller decides what to do with the leftovers.
func (s *Store) InsertContenedor(ctx context.Context, contenedor *models.ContenedorHistoria) error {
	if err := s.InsertHistoria(ctx, &contenedor.Historia); err != nil {
		return err
	}
	for i := range contenedor.Personajes {
		if err := s.InsertPersonaje(ctx, &contenedor.Personajes[i]); err != nil {
			return err
		}
	}
	return nil
}

// ListHistorias returns every stored story.
func (s *Store) ListHistorias(ctx context.Context) ([]models.Historia, error) {
	cursor, err := s.historias().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	historias := []models.Historia{}
	if err := cursor.All(ctx, &historias); err != nil {
		return nil, err
	}
	return historias, nil
}

// GetHistoria returns the story with the given story_id.
func (s *Store) GetHistoria(ctx context.Context, storyID string) (*models.Historia, error) {
	var historia models.Historia
	err := s.historias().FindOne(ctx, bson.M{"story_id": storyID}).Decode(&historia)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &historia, nil
}

// UpdateHistoria applies the given field updates and returns the updated
// document. fecha_modificacion is always refreshed.
func (s *Store) UpdateHistoria(ctx context.Context, storyID string, updates bson.M) (*models.Historia, error) {
	updates["fecha_modificacion"] = time.Now().UTC().Format(time.RFC3339Nano)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var historia models.Historia
	err := s.historias().
		FindOneAndUpdate(ctx, bson.M{"story_id": storyID}, bson.M{"$set": updates}, opts).
		Decode(&historia)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &historia, nil
}

// DeleteHistoria removes the story with the given story_id.
func (s *Store) DeleteHistoria(ctx context.Context, storyID string) error {
	result, err := s.historias().DeleteOne(ctx, bson.M{"story_id": storyID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertPersonaje stores one character document.
func (s *Store) InsertPersonaje(ctx context.Context, personaje *models.Personaje) error {
	_, err := s.personajes().InsertOne(ctx, personaje)
	return err
}

// ListPersonajes returns stored characters, optionally filtered by the
// owning story.
func (s *Store) ListPersonajes(ctx context.Context, storyID string) ([]models.Personaje, error) {
	filter := bson.M{}
	if storyID != "" {
		filter["story_id"] = storyID
	}

	cursor, err := s.personajes().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	personajes := []models.Personaje{}
	if err := cursor.All(ctx, &personajes); err != nil {
		return nil, err
	}
	return personajes, nil
}

// GetPersonaje returns the character with the given personaje_id.
func (s *Store) GetPersonaje(ctx context.Context, personajeID string) (*models.Personaje, error) {
	var personaje models.Personaje
	err := s.personajes().FindOne(ctx, bson.M{"personaje_id": personajeID}).Decode(&personaje)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &personaje, nil
}

// UpdatePersonaje applies the given field updates and returns the updated
// document.
func (s *Store) UpdatePersonaje(ctx context.Context, personajeID string, updates bson.M) (*models.Personaje, error) {
	updates["fecha_modificacion"] = time.Now().UTC().Format(time.RFC3339Nano)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var personaje models.Personaje
	err := s.personajes().
		FindOneAndUpdate(ctx, bson.M{"personaje_id": personajeID}, bson.M{"$set": updates}, opts).
		Decode(&personaje)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &personaje, nil
}

// DeletePersonaje removes the character with the given personaje_id.
func (s *Store) DeletePersonaje(ctx context.Context, personajeID string) error {
	result, err := s.personajes().DeleteOne(ctx, bson.M{"personaje_id": personajeID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
