// Package docs holds the OpenAPI document of the HTTP API, registered with
// swag and served under /swagger/. It is maintained by hand alongside the
// @Router annotations in internal/transport/http.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/history": {
            "get": {
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "History",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/history.Entry"}}}
                }
            },
            "delete": {
                "tags": ["history"],
                "summary": "Clear history",
                "responses": {
                    "204": {"description": "No Content"},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/history/{id}/replay": {
            "post": {
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "Replay a history entry",
                "parameters": [
                    {"type": "string", "description": "History entry id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.SpeakResult"}},
                    "404": {"description": "Unknown entry", "schema": {"$ref": "#/definitions/message.Error"}},
                    "503": {"description": "No speech backend could speak", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/phrase": {
            "get": {
                "produces": ["application/json"],
                "tags": ["phrase"],
                "summary": "Current phrase",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.PhraseUpdate"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["phrase"],
                "summary": "Clear the phrase",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.PhraseUpdate"}}
                }
            }
        },
        "/phrase/items": {
            "post": {
                "description": "The label is captured in the requested language. The response carries the\nsuggestions that usually follow the added pictogram.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["phrase"],
                "summary": "Add a pictogram to the phrase",
                "parameters": [
                    {"description": "Pictogram", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/message.AddItemRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.PhraseUpdate"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/message.Error"}},
                    "404": {"description": "Unknown pictogram", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/phrase/items/last": {
            "delete": {
                "produces": ["application/json"],
                "tags": ["phrase"],
                "summary": "Remove the last pictogram",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.PhraseUpdate"}}
                }
            }
        },
        "/phrase/listen": {
            "post": {
                "description": "Speaks the composed phrase. On success the utterance is added to the history and\nthe pictogram sequence is learned for suggestions. An empty phrase is a no-op.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["phrase"],
                "summary": "Speak the phrase",
                "parameters": [
                    {"description": "Options", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/message.ListenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.SpeakResult"}},
                    "503": {"description": "No speech backend could speak", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/pictograms": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Pictograms",
                "parameters": [
                    {"type": "string", "description": "Only this category", "name": "category", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/catalog.Pictogram"}}}
                }
            },
            "post": {
                "description": "Custom pictograms are saved to the catalog file. A custom id may be replaced;\nbuilt-in ids cannot.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Add a custom pictogram",
                "parameters": [
                    {"description": "Pictogram", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/message.PictogramRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/catalog.Pictogram"}},
                    "400": {"description": "Missing id or label", "schema": {"$ref": "#/definitions/message.Error"}},
                    "409": {"description": "Id belongs to a built-in pictogram", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/pictograms/categories": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "Pictogram categories",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}}
                }
            }
        },
        "/pictograms/{id}": {
            "delete": {
                "tags": ["catalog"],
                "summary": "Delete a custom pictogram",
                "parameters": [
                    {"type": "string", "description": "Pictogram id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Unknown pictogram", "schema": {"$ref": "#/definitions/message.Error"}},
                    "409": {"description": "Built-in pictograms cannot be deleted", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/favorites": {
            "get": {
                "produces": ["application/json"],
                "tags": ["favorites"],
                "summary": "Favorites",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.Favorites"}}
                }
            }
        },
        "/favorites/pictograms/{id}": {
            "put": {
                "produces": ["application/json"],
                "tags": ["favorites"],
                "summary": "Mark or unmark a favorite pictogram",
                "parameters": [
                    {"type": "string", "description": "Pictogram id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.Favorites"}},
                    "404": {"description": "Unknown pictogram", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["favorites"],
                "summary": "Mark or unmark a favorite pictogram",
                "parameters": [
                    {"type": "string", "description": "Pictogram id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.Favorites"}},
                    "404": {"description": "Unknown pictogram", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/favorites/phrases": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["favorites"],
                "summary": "Mark or unmark a favorite phrase",
                "parameters": [
                    {"description": "Phrase", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/message.FavoritePhraseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.Favorites"}},
                    "400": {"description": "Blank phrase", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            },
            "delete": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["favorites"],
                "summary": "Mark or unmark a favorite phrase",
                "parameters": [
                    {"description": "Phrase", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/message.FavoritePhraseRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.Favorites"}},
                    "400": {"description": "Blank phrase", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/messages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["messages"],
                "summary": "Quick messages",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/favorites.Message"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["messages"],
                "summary": "Add a quick message",
                "parameters": [
                    {"description": "Message", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/message.QuickMessageRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/favorites.Message"}},
                    "400": {"description": "Blank label", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/messages/{id}": {
            "delete": {
                "tags": ["messages"],
                "summary": "Delete a quick message",
                "parameters": [
                    {"type": "string", "description": "Message id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Unknown message", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/messages/{id}/speak": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["messages"],
                "summary": "Speak a quick message",
                "parameters": [
                    {"type": "string", "description": "Message id", "name": "id", "in": "path", "required": true},
                    {"description": "Language", "name": "request", "in": "body", "schema": {"$ref": "#/definitions/message.ListenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.SpeakResult"}},
                    "404": {"description": "Unknown message", "schema": {"$ref": "#/definitions/message.Error"}},
                    "503": {"description": "No speech backend could speak", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/speak": {
            "post": {
                "description": "Stops any current playback and speaks the text. When \"from\" differs from \"lang\"\nthe text is translated first; if translation is unavailable the original text is spoken.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["speech"],
                "summary": "Speak free text",
                "parameters": [
                    {"description": "Text to speak", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/message.SpeakRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.SpeakResult"}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/message.Error"}},
                    "503": {"description": "No speech backend could speak", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/state": {
            "get": {
                "produces": ["application/json"],
                "tags": ["speech"],
                "summary": "Playback state",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/orchestrator.Status"}}
                }
            }
        },
        "/stop": {
            "post": {
                "produces": ["application/json"],
                "tags": ["speech"],
                "summary": "Stop speaking",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/orchestrator.Status"}}
                }
            }
        },
        "/suggestions": {
            "get": {
                "description": "Without \"after\", suggests what follows the last pictogram of the phrase.",
                "produces": ["application/json"],
                "tags": ["phrase"],
                "summary": "Suggestions",
                "parameters": [
                    {"type": "string", "description": "Pictogram id to suggest after", "name": "after", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/catalog.Pictogram"}}}
                }
            }
        },
        "/translate": {
            "post": {
                "description": "Returns the cached or freshly fetched translation. When no provider can translate,\nthe original text is returned.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["translate"],
                "summary": "Translate text",
                "parameters": [
                    {"description": "Text", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/message.TranslateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.TranslateResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/voices": {
            "get": {
                "produces": ["application/json"],
                "tags": ["voices"],
                "summary": "List voices",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.Voices"}},
                    "502": {"description": "Speech engine could not list voices", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/voices/{lang}": {
            "put": {
                "description": "An empty voiceId restores automatic voice selection.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["voices"],
                "summary": "Set the voice for a language",
                "parameters": [
                    {"type": "string", "description": "Language or locale (e.g. fr, fr-FR)", "name": "lang", "in": "path", "required": true},
                    {"description": "Voice", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/message.VoiceRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/message.VoicePreferences"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        },
        "/volume": {
            "put": {
                "description": "The volume is clamped to [0, 1] and applies from the next utterance.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["speech"],
                "summary": "Set volume",
                "parameters": [
                    {"description": "Volume", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/message.VolumeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/orchestrator.Status"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/message.Error"}}
                }
            }
        }
    },
    "definitions": {
        "catalog.Pictogram": {
            "type": "object",
            "properties": {
                "category": {"type": "string"},
                "custom": {"type": "boolean"},
                "id": {"type": "string"},
                "imagery": {"type": "string"},
                "label": {"type": "string"},
                "labels": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "favorites.Message": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "id": {"type": "string"},
                "imagery": {"type": "string"},
                "label": {"type": "string"}
            }
        },
        "history.Entry": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "id": {"type": "string"},
                "locale": {"type": "string"},
                "text": {"type": "string"}
            }
        },
        "message.AddItemRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "15"},
                "lang": {"type": "string", "example": "mg"}
            }
        },
        "message.Error": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "requestId": {"type": "string"}
            }
        },
        "message.ListenRequest": {
            "type": "object",
            "properties": {
                "clear": {"description": "Clear empties the phrase once it has been spoken.", "type": "boolean"},
                "lang": {"type": "string", "example": "fr"}
            }
        },
        "message.Phrase": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/phrase.Item"}},
                "text": {"type": "string"}
            }
        },
        "message.PhraseUpdate": {
            "type": "object",
            "properties": {
                "phrase": {"$ref": "#/definitions/message.Phrase"},
                "suggestions": {"type": "array", "items": {"$ref": "#/definitions/catalog.Pictogram"}}
            }
        },
        "message.SpeakRequest": {
            "type": "object",
            "properties": {
                "from": {"description": "From is the language Text is written in. When it differs from Lang the\ntext is translated first.", "type": "string", "example": "en"},
                "lang": {"description": "Lang is the language to speak in (ISO-639-1). Defaults to the board language.", "type": "string", "example": "fr"},
                "text": {"description": "Text is what to say. Blank text is ignored.", "type": "string", "example": "Je veux de l'eau"}
            }
        },
        "message.SpeakResult": {
            "type": "object",
            "properties": {
                "entry": {"description": "Entry is the history record of the utterance.", "allOf": [{"$ref": "#/definitions/history.Entry"}]},
                "spoken": {"description": "Spoken is false when the input was empty and nothing happened.", "type": "boolean"}
            }
        },
        "message.TranslateRequest": {
            "type": "object",
            "properties": {
                "source": {"type": "string", "example": "en"},
                "target": {"type": "string", "example": "fr"},
                "text": {"type": "string", "example": "I want water"}
            }
        },
        "message.Favorites": {
            "type": "object",
            "properties": {
                "phrases": {"type": "array", "items": {"type": "string"}},
                "pictograms": {"type": "array", "items": {"$ref": "#/definitions/catalog.Pictogram"}}
            }
        },
        "message.FavoritePhraseRequest": {
            "type": "object",
            "properties": {
                "text": {"type": "string", "example": "J'ai soif"}
            }
        },
        "message.PictogramRequest": {
            "type": "object",
            "properties": {
                "category": {"type": "string", "example": "famille"},
                "id": {"type": "string", "example": "c-1"},
                "imagery": {"type": "string", "example": "🐈"},
                "label": {"type": "string", "example": "Mon chat"},
                "labels": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "message.QuickMessageRequest": {
            "type": "object",
            "properties": {
                "imagery": {"type": "string", "example": "📞"},
                "label": {"type": "string", "example": "Appelle maman"}
            }
        },
        "message.TranslateResult": {
            "type": "object",
            "properties": {
                "text": {"type": "string"}
            }
        },
        "message.VoicePreferences": {
            "type": "object",
            "properties": {
                "voiceMap": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "message.VoiceRequest": {
            "type": "object",
            "properties": {
                "voiceId": {"type": "string", "example": "fr-fr"}
            }
        },
        "message.Voices": {
            "type": "object",
            "properties": {
                "voiceMap": {"type": "object", "additionalProperties": {"type": "string"}},
                "voices": {"type": "array", "items": {"$ref": "#/definitions/tts.Voice"}}
            }
        },
        "message.VolumeRequest": {
            "type": "object",
            "properties": {
                "volume": {"type": "number", "example": 0.8}
            }
        },
        "orchestrator.Status": {
            "type": "object",
            "properties": {
                "backend": {"type": "string", "enum": ["offline", "native"]},
                "defaultLanguage": {"type": "string"},
                "maxUtterance": {"type": "string"},
                "nativeReady": {"type": "boolean"},
                "offlineReady": {"type": "boolean"},
                "speaking": {"type": "boolean"},
                "state": {"type": "string", "enum": ["idle", "starting", "speaking"]},
                "voiceMap": {"type": "object", "additionalProperties": {"type": "string"}},
                "volume": {"type": "number"}
            }
        },
        "phrase.Item": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "label": {"type": "string"}
            }
        },
        "tts.Voice": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "language": {"type": "string"},
                "name": {"type": "string"},
                "quality": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Talkboard API",
	Description:      "Pictogram board speech, phrase composition, history, suggestions and translation.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
