package example

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers from tensorflow/core/example/{example,feature}.proto.
const (
	exampleFeatures protowire.Number = 1
	featuresFeature protowire.Number = 1
	mapKey          protowire.Number = 1
	mapValue        protowire.Number = 2
	featureBytes    protowire.Number = 1
	featureFloat    protowire.Number = 2
	featureInt64    protowire.Number = 3
	listValue       protowire.Number = 1
)

// Marshal encodes e as a serialized tensorflow.Example.
func (e *Example) Marshal() ([]byte, error) {
	var features []byte
	for _, key := range e.Keys() {
		value, err := marshalFeature(e.Features[key])
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", key, err)
		}
		var entry []byte
		entry = protowire.AppendTag(entry, mapKey, protowire.BytesType)
		entry = protowire.AppendString(entry, key)
		entry = protowire.AppendTag(entry, mapValue, protowire.BytesType)
		entry = protowire.AppendBytes(entry, value)

		features = protowire.AppendTag(features, featuresFeature, protowire.BytesType)
		features = protowire.AppendBytes(features, entry)
	}
	var out []byte
	out = protowire.AppendTag(out, exampleFeatures, protowire.BytesType)
	out = protowire.AppendBytes(out, features)
	return out, nil
}

func marshalFeature(f Feature) ([]byte, error) {
	var list []byte
	var field protowire.Number
	switch f.Kind {
	case KindBytes:
		field = featureBytes
		for _, v := range f.Bytes {
			list = protowire.AppendTag(list, listValue, protowire.BytesType)
			list = protowire.AppendBytes(list, v)
		}
	case KindFloat:
		field = featureFloat
		if len(f.Floats) > 0 {
			packed := make([]byte, 0, 4*len(f.Floats))
			for _, v := range f.Floats {
				packed = protowire.AppendFixed32(packed, math.Float32bits(v))
			}
			list = protowire.AppendTag(list, listValue, protowire.BytesType)
			list = protowire.AppendBytes(list, packed)
		}
	case KindInt64:
		field = featureInt64
		if len(f.Int64s) > 0 {
			var packed []byte
			for _, v := range f.Int64s {
				packed = protowire.AppendVarint(packed, uint64(v))
			}
			list = protowire.AppendTag(list, listValue, protowire.BytesType)
			list = protowire.AppendBytes(list, packed)
		}
	default:
		return nil, fmt.Errorf("unknown feature kind %v", f.Kind)
	}
	var out []byte
	out = protowire.AppendTag(out, field, protowire.BytesType)
	out = protowire.AppendBytes(out, list)
	return out, nil
}

// Unmarshal decodes a serialized tensorflow.Example.
func Unmarshal(data []byte) (*Example, error) {
	e := New()
	err := walk(data, func(num protowire.Number, typ protowire.Type, value []byte) error {
		if num != exampleFeatures || typ != protowire.BytesType {
			return nil
		}
		return walk(value, func(num protowire.Number, typ protowire.Type, entry []byte) error {
			if num != featuresFeature || typ != protowire.BytesType {
				return nil
			}
			key, f, err := unmarshalEntry(entry)
			if err != nil {
				return err
			}
			e.Features[key] = f
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

func unmarshalEntry(entry []byte) (string, Feature, error) {
	var key string
	var f Feature
	err := walk(entry, func(num protowire.Number, typ protowire.Type, value []byte) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case mapKey:
			key = string(value)
		case mapValue:
			var err error
			f, err = unmarshalFeature(value)
			return err
		}
		return nil
	})
	if err != nil {
		return "", Feature{}, fmt.Errorf("feature %q: %w", key, err)
	}
	return key, f, nil
}

func unmarshalFeature(data []byte) (Feature, error) {
	var f Feature
	err := walk(data, func(num protowire.Number, typ protowire.Type, list []byte) error {
		if typ != protowire.BytesType {
			return nil
		}
		switch num {
		case featureBytes:
			f = Feature{Kind: KindBytes, Bytes: [][]byte{}}
			return walkList(list, func(typ protowire.Type, v []byte) error {
				if typ != protowire.BytesType {
					return errors.New("bytes list: unexpected wire type")
				}
				f.Bytes = append(f.Bytes, append([]byte{}, v...))
				return nil
			})
		case featureFloat:
			f = Feature{Kind: KindFloat, Floats: []float32{}}
			return walkList(list, func(typ protowire.Type, v []byte) error {
				return appendFloats(&f, typ, v)
			})
		case featureInt64:
			f = Feature{Kind: KindInt64, Int64s: []int64{}}
			return walkList(list, func(typ protowire.Type, v []byte) error {
				return appendInt64s(&f, typ, v)
			})
		}
		return nil
	})
	if err != nil {
		return Feature{}, err
	}
	if f.Kind == 0 {
		return Feature{}, errors.New("feature has no value list")
	}
	return f, nil
}

func appendFloats(f *Feature, typ protowire.Type, v []byte) error {
	switch typ {
	case protowire.Fixed32Type:
		bits, _ := protowire.ConsumeFixed32(v)
		f.Floats = append(f.Floats, math.Float32frombits(bits))
	case protowire.BytesType:
		for len(v) > 0 {
			bits, n := protowire.ConsumeFixed32(v)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f.Floats = append(f.Floats, math.Float32frombits(bits))
			v = v[n:]
		}
	default:
		return errors.New("float list: unexpected wire type")
	}
	return nil
}

func appendInt64s(f *Feature, typ protowire.Type, v []byte) error {
	switch typ {
	case protowire.VarintType:
		n, _ := protowire.ConsumeVarint(v)
		f.Int64s = append(f.Int64s, int64(n))
	case protowire.BytesType:
		for len(v) > 0 {
			n, m := protowire.ConsumeVarint(v)
			if m < 0 {
				return protowire.ParseError(m)
			}
			f.Int64s = append(f.Int64s, int64(n))
			v = v[m:]
		}
	default:
		return errors.New("int64 list: unexpected wire type")
	}
	return nil
}

// walk visits each length-delimited field of a message, skipping the
// payload of any other wire type.
func walk(data []byte, fn func(protowire.Number, protowire.Type, []byte) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		if typ != protowire.BytesType {
			m := protowire.ConsumeFieldValue(num, typ, data)
			if m < 0 {
				return protowire.ParseError(m)
			}
			data = data[m:]
			continue
		}
		value, m := protowire.ConsumeBytes(data)
		if m < 0 {
			return protowire.ParseError(m)
		}
		data = data[m:]
		if err := fn(num, typ, value); err != nil {
			return err
		}
	}
	return nil
}

// walkList visits every value of a repeated field 1, passing the raw
// encoded value for scalar wire types and the payload for length-delimited
// ones.
func walkList(data []byte, fn func(protowire.Type, []byte) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]
		var value []byte
		var m int
		if typ == protowire.BytesType {
			value, m = protowire.ConsumeBytes(data)
		} else {
			m = protowire.ConsumeFieldValue(num, typ, data)
			if m >= 0 {
				value = data[:m]
			}
		}
		if m < 0 {
			return protowire.ParseError(m)
		}
		data = data[m:]
		if num != listValue {
			continue
		}
		if err := fn(typ, value); err != nil {
			return err
		}
	}
	return nil
}
