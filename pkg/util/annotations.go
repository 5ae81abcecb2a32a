/*
   MZDisk - Vector Graphic MZOS disk image tool
   Copyright (c) 2022, Alexander Vollschwitz

   This file is part of MZDisk.

   MZDisk is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   MZDisk is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with MZDisk. If not, see <http://www.gnu.org/licenses/>.
*/

package util

// Annotations attach arbitrary named values to an object, e.g. type specific
// details of a file.
type Annotations map[string]*Annotation

//
func (a Annotations) Annotate(key string, value interface{}) {
	if a != nil {
		a[key] = NewAnnotation(key, value)
	}
}

// GetAnnotation returns the annotation for key, or nil if there is none.
// All accessors of Annotation can safely be called on nil.
func (a Annotations) GetAnnotation(key string) *Annotation {
	return a[key]
}

//
func (a Annotations) HasAnnotation(key string) bool {
	_, ok := a[key]
	return ok
}

//
func NewAnnotation(key string, value interface{}) *Annotation {
	return &Annotation{key: key, value: value}
}

//
type Annotation struct {
	key   string
	value interface{}
}

//
func (a *Annotation) Key() string {
	if a == nil {
		return ""
	}
	return a.key
}

//
func (a *Annotation) Value() interface{} {
	if a == nil {
		return nil
	}
	return a.value
}

//
func (a *Annotation) IsInt() bool {
	_, ok := a.Value().(int)
	return ok
}

//
func (a *Annotation) Int() int {
	if v, ok := a.Value().(int); ok {
		return v
	}
	return 0
}

//
func (a *Annotation) IsString() bool {
	_, ok := a.Value().(string)
	return ok
}

//
func (a *Annotation) String() string {
	if v, ok := a.Value().(string); ok {
		return v
	}
	return ""
}
