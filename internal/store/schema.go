package store

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Shared definitions referenced by the per-collection schemas.
const schemaDefs = `{
  "answer": {"type": ["integer", "array", "null"], "items": {"type": "integer"}},
  "question": {
    "type": "object",
    "required": ["id", "question", "type", "options", "correctAnswer"],
    "properties": {
      "id": {"type": "string"},
      "question": {"type": "string"},
      "type": {"enum": ["single", "multiple", "judgment"]},
      "options": {"type": "array", "items": {"type": "string"}},
      "correctAnswer": {"$ref": "#/$defs/answer"},
      "category": {"type": "string"},
      "difficulty": {"type": "string"},
      "explanation": {"type": "string"}
    }
  },
  "userAnswer": {
    "type": "object",
    "required": ["questionId", "selectedAnswer", "isCorrect", "timestamp"],
    "properties": {
      "questionId": {"type": "string"},
      "selectedAnswer": {"$ref": "#/$defs/answer"},
      "isCorrect": {"type": "boolean"},
      "timestamp": {"type": "integer"}
    }
  }
}`

// collectionSchemas maps each collection key to the schema of its value.
var collectionSchemas = map[string]string{
	KeyBanks: `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "questions", "createdAt"],
    "properties": {
      "id": {"type": "string"},
      "name": {"type": "string"},
      "questions": {"type": "array", "items": {"$ref": "#/$defs/question"}},
      "createdAt": {"type": "integer"}
    }
  }
}`,
	KeyAnswers: `{"type": "array", "items": {"$ref": "#/$defs/userAnswer"}}`,
	KeySessions: `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "bankId", "answers", "startTime", "mode"],
    "properties": {
      "id": {"type": "string"},
      "bankId": {"type": "string"},
      "answers": {"type": "array", "items": {"$ref": "#/$defs/userAnswer"}},
      "startTime": {"type": "integer"},
      "endTime": {"type": "integer"},
      "mode": {"enum": ["practice", "exam"]},
      "score": {"type": "number"}
    }
  }
}`,
	KeyFavorites: `{"type": "array", "items": {"type": "string"}}`,
	KeyDailyRecords: `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["date", "questionsAnswered", "correctAnswers", "studyTime"],
    "properties": {
      "date": {"type": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
      "questionsAnswered": {"type": "integer", "minimum": 0},
      "correctAnswers": {"type": "integer", "minimum": 0},
      "studyTime": {"type": "integer", "minimum": 0}
    }
  }
}`,
	KeyExplanations: `{"type": "object", "additionalProperties": {"type": "string"}}`,
}

var (
	compiledOnce    sync.Once
	compiledSchemas map[string]*jsonschema.Schema
	compileErr      error
)

// compileSchemas compiles every collection schema once.
func compileSchemas() (map[string]*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiledSchemas = make(map[string]*jsonschema.Schema, len(collectionSchemas))
		for key, body := range collectionSchemas {
			src := strings.Replace(body, "{", `{"$defs": `+schemaDefs+`,`, 1)
			doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src))
			if err != nil {
				compileErr = fmt.Errorf("parse schema %s: %w", key, err)
				return
			}

			c := jsonschema.NewCompiler()
			url := fmt.Sprintf("schema://quizzy/%s.json", key)
			if err := c.AddResource(url, doc); err != nil {
				compileErr = fmt.Errorf("add resource %s: %w", key, err)
				return
			}
			sch, err := c.Compile(url)
			if err != nil {
				compileErr = fmt.Errorf("compile %s: %w", key, err)
				return
			}
			compiledSchemas[key] = sch
		}
	})
	return compiledSchemas, compileErr
}

// validateCollection checks raw against the schema registered for key.
// Keys without a schema pass.
func validateCollection(key string, raw []byte) error {
	schemas, err := compileSchemas()
	if err != nil {
		return err
	}
	sch, ok := schemas[key]
	if !ok {
		return nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
