package apierror

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const maxMessageLen = 300

// FromResponse converts a non-2xx response into an *Error. The message is
// the most specific one available: a known backend string, the joined list
// of validation messages, detail, message, and finally the status text.
// Raw JSON and stack traces never end up in the message.
func FromResponse(status int, statusText string, body []byte) *Error {
	if status == http.StatusUnauthorized {
		return AuthExpired()
	}

	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)

	detail := rawString(payload.Detail)
	message := rawString(payload.Message)
	if message == "" {
		message = rawString(payload.Error)
	}
	items := detailItems(payload.Detail)

	candidates := []string{detail, message}
	for _, it := range items {
		candidates = append(candidates, it.msg)
	}
	for _, c := range candidates {
		if friendly, ok := lookupKnown(c); ok {
			return &Error{Kind: KindDomainConstraint, Status: status, Message: friendly}
		}
	}

	if len(items) > 0 {
		msgs := make([]string, 0, len(items))
		fields := make(map[string]string, len(items))
		for _, it := range items {
			msgs = append(msgs, it.msg)
			if it.field != "" {
				fields[it.field] = it.msg
			}
		}
		joined := strings.Join(msgs, ", ")
		if status >= 400 && status < 500 {
			return &Error{Kind: KindValidation, Status: status, Message: joined, Fields: fields}
		}
		// A list from a failing server is still a server failure.
		detail = joined
	}

	msg := firstClean(detail, message, statusText, http.StatusText(status))
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status %d", status)
	}
	return &Error{Kind: KindServer, Status: status, Message: msg}
}

type detailItem struct {
	field string
	msg   string
}

// detailItems decodes a list-shaped detail. Items are either strings or
// objects with msg/message and an optional loc path.
func detailItems(raw json.RawMessage) []detailItem {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	items := make([]detailItem, 0, len(list))
	for _, el := range list {
		if s := rawString(el); s != "" {
			if s = clean(s); s != "" {
				items = append(items, detailItem{msg: s})
			}
			continue
		}
		var obj struct {
			Loc     []any  `json:"loc"`
			Msg     string `json:"msg"`
			Message string `json:"message"`
			Field   string `json:"field"`
		}
		if err := json.Unmarshal(el, &obj); err != nil {
			continue
		}
		msg := clean(obj.Msg)
		if msg == "" {
			msg = clean(obj.Message)
		}
		if msg == "" {
			continue
		}
		field := obj.Field
		if field == "" && len(obj.Loc) > 0 {
			field = fmt.Sprint(obj.Loc[len(obj.Loc)-1])
		}
		items = append(items, detailItem{field: field, msg: msg})
	}
	return items
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || raw[0] != '"' {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func firstClean(values ...string) string {
	for _, v := range values {
		if c := clean(v); c != "" {
			return c
		}
	}
	return ""
}

// clean rejects text that looks like a stack trace or serialized payload.
func clean(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return ""
	case len(s) > maxMessageLen:
		return ""
	case strings.ContainsAny(s, "\n\r"):
		return ""
	case strings.HasPrefix(s, "{") || strings.HasPrefix(s, "["):
		return ""
	case strings.Contains(s, "Traceback"):
		return ""
	}
	return s
}
