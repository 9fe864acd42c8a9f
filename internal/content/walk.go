// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package content

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"menupress/internal/models"
)

var (
	sectionType  = reflect.TypeOf(models.Section{})
	sectionsType = reflect.TypeOf(models.Sections(nil))
)

// Get returns the value at path p inside doc. An empty path returns the
// whole document.
func Get(doc *models.Content, p Path) (any, error) {
	v := reflect.ValueOf(doc).Elem()
	for i, seg := range p {
		next, err := step(v, seg)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPath, p[:i+1], err)
		}
		v = next
	}
	return v.Interface(), nil
}

// Set replaces the value at path p inside doc.
//
// value is either a json.RawMessage, decoded into the target's type, or a
// Go value assignable to the target's type. An index equal to the length of
// a list appends a new element.
func Set(doc *models.Content, p Path, value any) error {
	if len(p) == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	v := reflect.ValueOf(doc).Elem()
	for i, seg := range p[:len(p)-1] {
		next, err := step(v, seg)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidPath, p[:i+1], err)
		}
		v = next
	}

	last := p[len(p)-1]
	parent := deref(v)
	if last.isIndex && parent.IsValid() && parent.Kind() == reflect.Slice && last.index == parent.Len() {
		elem := reflect.New(parent.Type().Elem()).Elem()
		if err := assign(elem, value); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidPath, p, err)
		}
		parent.Set(reflect.Append(parent, elem))
		return nil
	}

	target, err := step(v, last)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPath, p, err)
	}
	if err := assign(target, value); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPath, p, err)
	}
	return nil
}

// step moves one segment down from v.
func step(v reflect.Value, seg Segment) (reflect.Value, error) {
	v = deref(v)
	if !v.IsValid() {
		return reflect.Value{}, fmt.Errorf("nil value")
	}

	if v.Type() == sectionType {
		if seg.isIndex {
			return reflect.Value{}, fmt.Errorf("cannot index a section")
		}
		v = deref(v.FieldByName("Payload"))
		if !v.IsValid() {
			return reflect.Value{}, fmt.Errorf("section has no payload")
		}
	}

	switch v.Kind() {
	case reflect.Struct:
		if seg.isIndex {
			return reflect.Value{}, fmt.Errorf("cannot index %s", v.Type())
		}
		f, ok := fieldByJSONName(v, seg.name)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%s has no field %q", v.Type(), seg.name)
		}
		return f, nil

	case reflect.Slice:
		if !seg.isIndex {
			if v.Type() != sectionsType {
				return reflect.Value{}, fmt.Errorf("expected an index, got field %q", seg.name)
			}
			i := v.Interface().(models.Sections).Index(seg.name)
			if i < 0 {
				return reflect.Value{}, fmt.Errorf("no section named %q", seg.name)
			}
			return v.Index(i), nil
		}
		if seg.index >= v.Len() {
			return reflect.Value{}, fmt.Errorf("index %d out of range (len %d)", seg.index, v.Len())
		}
		return v.Index(seg.index), nil
	}

	return reflect.Value{}, fmt.Errorf("cannot descend into %s", v.Type())
}

// deref follows interfaces and pointers. It returns the zero Value on nil.
func deref(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func fieldByJSONName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if tag == "-" {
			continue
		}
		if tag == "" {
			tag = sf.Name
		}
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func assign(target reflect.Value, value any) error {
	if !target.CanSet() {
		return fmt.Errorf("%s is not settable", target.Type())
	}

	if raw, ok := value.(json.RawMessage); ok {
		ptr := reflect.New(target.Type())
		if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
			return fmt.Errorf("decode %s: %w", target.Type(), err)
		}
		target.Set(ptr.Elem())
		return nil
	}

	rv := reflect.ValueOf(value)
	if !rv.IsValid() {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	if !rv.Type().AssignableTo(target.Type()) {
		return fmt.Errorf("cannot assign %s to %s", rv.Type(), target.Type())
	}
	target.Set(rv)
	return nil
}
