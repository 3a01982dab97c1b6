package ui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/smith3v/trade-prompts/pkg/catalog"
	"github.com/smith3v/trade-prompts/pkg/instrument"
)

const (
	CallbackPrefix     = "p:"
	MaxCallbackDataLen = 64
)

type Operation string

const (
	OpFavorite   Operation = "fav"
	OpCopy       Operation = "copy"
	OpAdd        Operation = "add"
	OpCategory   Operation = "cat"
	OpTopic      Operation = "topic"
	OpInstrument Operation = "inst"
)

const (
	sourceOwned     = "o"
	sourceSuggested = "s"
)

// Action is a decoded inline button press. Only the fields relevant to Op
// are set.
type Action struct {
	Op         Operation
	Ref        catalog.PromptRef
	Category   catalog.Category
	Topic      string
	Instrument string
}

var (
	errInvalidPrefix       = errors.New("invalid callback prefix")
	errInvalidAction       = errors.New("invalid callback action")
	errInvalidOperation    = errors.New("invalid callback operation")
	errInvalidValue        = errors.New("invalid callback value")
	errCallbackDataTooLong = errors.New("callback data too long")
)

func BuildFavoriteCallback(ref catalog.PromptRef) (string, error) {
	return buildPromptCallback(OpFavorite, ref)
}

func BuildCopyCallback(ref catalog.PromptRef) (string, error) {
	return buildPromptCallback(OpCopy, ref)
}

// BuildAddCallback adopts the suggested template with id.
func BuildAddCallback(suggestedID int) (string, error) {
	return buildPromptCallback(OpAdd, catalog.Suggested(suggestedID))
}

func BuildCategoryCallback(category catalog.Category) (string, error) {
	if _, ok := catalog.ParseCategory(string(category)); !ok {
		return "", errInvalidValue
	}
	return validateCallbackData(CallbackPrefix + string(OpCategory) + ":" + string(category))
}

func BuildTopicCallback(id string) (string, error) {
	if id == "" || strings.Contains(id, ":") {
		return "", errInvalidValue
	}
	return validateCallbackData(CallbackPrefix + string(OpTopic) + ":" + id)
}

func BuildInstrumentCallback(symbol string) (string, error) {
	if !instrument.Known(symbol) {
		return "", errInvalidValue
	}
	return validateCallbackData(CallbackPrefix + string(OpInstrument) + ":" + symbol)
}

func ParseCallbackData(data string) (Action, error) {
	if data == "" {
		return Action{}, errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return Action{}, errCallbackDataTooLong
	}
	if !strings.HasPrefix(data, CallbackPrefix) {
		return Action{}, errInvalidPrefix
	}

	parts := strings.Split(data, ":")
	if len(parts) < 3 || parts[0] != "p" {
		return Action{}, errInvalidAction
	}

	op := Operation(parts[1])
	switch op {
	case OpFavorite, OpCopy, OpAdd:
		if len(parts) != 4 {
			return Action{}, errInvalidAction
		}
		return parsePromptAction(op, parts[2], parts[3])
	case OpCategory:
		if len(parts) != 3 {
			return Action{}, errInvalidAction
		}
		category, ok := catalog.ParseCategory(parts[2])
		if !ok {
			return Action{}, errInvalidValue
		}
		return Action{Op: op, Category: category}, nil
	case OpTopic:
		if len(parts) != 3 || parts[2] == "" {
			return Action{}, errInvalidValue
		}
		return Action{Op: op, Topic: parts[2]}, nil
	case OpInstrument:
		if len(parts) != 3 || !instrument.Known(parts[2]) {
			return Action{}, errInvalidValue
		}
		return Action{Op: op, Instrument: parts[2]}, nil
	default:
		return Action{}, errInvalidOperation
	}
}

func buildPromptCallback(op Operation, ref catalog.PromptRef) (string, error) {
	if ref.ID <= 0 {
		return "", errInvalidValue
	}
	var source string
	switch ref.Source {
	case catalog.SourceOwned:
		source = sourceOwned
	case catalog.SourceSuggested:
		source = sourceSuggested
	default:
		return "", errInvalidValue
	}
	if op == OpAdd && source != sourceSuggested {
		return "", errInvalidAction
	}
	data := CallbackPrefix + string(op) + ":" + source + ":" + strconv.Itoa(ref.ID)
	return validateCallbackData(data)
}

func parsePromptAction(op Operation, sourcePart, idPart string) (Action, error) {
	var ref catalog.PromptRef
	switch sourcePart {
	case sourceOwned:
		ref.Source = catalog.SourceOwned
	case sourceSuggested:
		ref.Source = catalog.SourceSuggested
	default:
		return Action{}, errInvalidValue
	}
	if op == OpAdd && ref.Source != catalog.SourceSuggested {
		return Action{}, errInvalidAction
	}
	if !isASCIIUnsignedInt(idPart) {
		return Action{}, errInvalidValue
	}
	id, err := strconv.Atoi(idPart)
	if err != nil || id <= 0 {
		return Action{}, errInvalidValue
	}
	ref.ID = id
	return Action{Op: op, Ref: ref}, nil
}

func validateCallbackData(data string) (string, error) {
	if data == "" {
		return "", errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return "", errCallbackDataTooLong
	}
	return data, nil
}

func isASCIIUnsignedInt(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}
