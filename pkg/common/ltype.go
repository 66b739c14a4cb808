// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"fmt"
)

type LTypeId int

const (
	LTID_INVALID LTypeId = 0
	LTID_BOOLEAN LTypeId = 10
	LTID_INTEGER LTypeId = 13
	LTID_BIGINT  LTypeId = 14
	LTID_DATE    LTypeId = 15
	LTID_DECIMAL LTypeId = 21
	LTID_DOUBLE  LTypeId = 23
	LTID_VARCHAR LTypeId = 25
)

var lTypeIdToStr = map[LTypeId]string{
	LTID_INVALID: "LTID_INVALID",
	LTID_BOOLEAN: "LTID_BOOLEAN",
	LTID_INTEGER: "LTID_INTEGER",
	LTID_BIGINT:  "LTID_BIGINT",
	LTID_DATE:    "LTID_DATE",
	LTID_DECIMAL: "LTID_DECIMAL",
	LTID_DOUBLE:  "LTID_DOUBLE",
	LTID_VARCHAR: "LTID_VARCHAR",
}

func (id LTypeId) String() string {
	if s, has := lTypeIdToStr[id]; has {
		return s
	}
	panic(fmt.Sprintf("usp %d", id))
}

// LType is the logical type of a column.
type LType struct {
	Id    LTypeId
	Width int
	Scale int
}

func MakeLType(id LTypeId) LType {
	return LType{Id: id}
}

func InvalidType() LType {
	return MakeLType(LTID_INVALID)
}

func BooleanType() LType {
	return MakeLType(LTID_BOOLEAN)
}

func IntegerType() LType {
	return MakeLType(LTID_INTEGER)
}

func BigintType() LType {
	return MakeLType(LTID_BIGINT)
}

func DateType() LType {
	return MakeLType(LTID_DATE)
}

func DoubleType() LType {
	return MakeLType(LTID_DOUBLE)
}

func VarcharType() LType {
	return MakeLType(LTID_VARCHAR)
}

func DecimalType(width, scale int) LType {
	ret := MakeLType(LTID_DECIMAL)
	ret.Width = width
	ret.Scale = scale
	return ret
}

func (lt LType) IsValid() bool {
	_, has := lTypeIdToStr[lt.Id]
	return has && lt.Id != LTID_INVALID
}

func (lt LType) Equal(o LType) bool {
	if lt.Id != o.Id {
		return false
	}
	if lt.Id == LTID_DECIMAL {
		return lt.Width == o.Width && lt.Scale == o.Scale
	}
	return true
}

// Size is the fixed byte width of one value, or 0 for variable length types.
func (lt LType) Size() int {
	switch lt.Id {
	case LTID_BOOLEAN:
		return 1
	case LTID_INTEGER, LTID_DATE:
		return 4
	case LTID_BIGINT, LTID_DOUBLE, LTID_DECIMAL:
		return 8
	default:
		return 0
	}
}

func (lt LType) String() string {
	if lt.Id == LTID_DECIMAL {
		return fmt.Sprintf("decimal(%d,%d)", lt.Width, lt.Scale)
	}
	switch lt.Id {
	case LTID_BOOLEAN:
		return "boolean"
	case LTID_INTEGER:
		return "integer"
	case LTID_BIGINT:
		return "bigint"
	case LTID_DATE:
		return "date"
	case LTID_DOUBLE:
		return "double"
	case LTID_VARCHAR:
		return "varchar"
	default:
		return "invalid"
	}
}
