package goredact

import (
	"encoding/json"
	"strconv"

	"go.uber.org/zap/zapcore"
)

// valueObject encodes a sanitized Mapping for zap, keeping entry order.
type valueObject Mapping

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (m valueObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, e := range m {
		if err := addValue(enc, e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// valueArray encodes a sanitized Sequence for zap.
type valueArray Sequence

// MarshalLogArray implements zapcore.ArrayMarshaler.
func (s valueArray) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, item := range s {
		if err := appendValue(enc, item); err != nil {
			return err
		}
	}
	return nil
}

func addValue(enc zapcore.ObjectEncoder, key string, v Value) error {
	switch t := v.(type) {
	case nil, Null:
		return enc.AddReflected(key, nil)
	case Bool:
		enc.AddBool(key, bool(t))
	case Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			enc.AddInt64(key, i)
			return nil
		}
		if isNumberLiteral(string(t)) {
			return enc.AddReflected(key, json.Number(t))
		}
		enc.AddString(key, string(t))
	case String:
		enc.AddString(key, string(t))
	case Sequence:
		return enc.AddArray(key, valueArray(t))
	case Mapping:
		return enc.AddObject(key, valueObject(t))
	default:
		enc.AddString(key, textOf(t))
	}
	return nil
}

func appendValue(enc zapcore.ArrayEncoder, v Value) error {
	switch t := v.(type) {
	case nil, Null:
		return enc.AppendReflected(nil)
	case Bool:
		enc.AppendBool(bool(t))
	case Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			enc.AppendInt64(i)
			return nil
		}
		if isNumberLiteral(string(t)) {
			return enc.AppendReflected(json.Number(t))
		}
		enc.AppendString(string(t))
	case String:
		enc.AppendString(string(t))
	case Sequence:
		return enc.AppendArray(valueArray(t))
	case Mapping:
		return enc.AppendObject(valueObject(t))
	default:
		enc.AppendString(textOf(t))
	}
	return nil
}
