package lit

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ReadMulti reads multiple objects concurrently.
// The result maps each address that was read successfully to its object.
// The returned error, if any, is a MultiErr
// mapping each failed address to its error,
// so every input address appears in exactly one of the two maps.
// A partial result is returned even in case of error.
func ReadMulti(ctx context.Context, g Getter, addrs []Address) (map[Address]Object, error) {
	type triple struct {
		addr Address
		obj  Object
		err  error
	}

	var (
		res = make(map[Address]Object)
		ch  = make(chan triple)
	)

	for _, addr := range addrs {
		addr := addr
		go func() {
			obj, err := Read(ctx, g, addr)
			ch <- triple{addr: addr, obj: obj, err: err}
		}()
	}

	var errmap MultiErr

	for range addrs {
		trip := <-ch
		if trip.err != nil {
			if errmap == nil {
				errmap = make(MultiErr)
			}
			errmap[trip.addr] = trip.err
			continue
		}
		res[trip.addr] = trip.obj
	}

	if errmap == nil {
		return res, nil
	}
	return res, errmap
}

// WriteMulti writes multiple objects concurrently.
// The result maps the address of each object written successfully
// to a boolean telling whether it was newly added to s.
// The returned error, if any, is a MultiErr
// mapping the addresses of failed objects to their errors.
func WriteMulti(ctx context.Context, s Store, objs []Object) (map[Address]bool, error) {
	type triple struct {
		addr  Address
		added bool
		err   error
	}

	var (
		res = make(map[Address]bool)
		ch  = make(chan triple)
	)

	for _, obj := range objs {
		frame, addr := Encode(obj)
		go func() {
			_, added, err := s.Put(ctx, frame)
			ch <- triple{addr: addr, added: added, err: err}
		}()
	}

	var errmap MultiErr

	for range objs {
		trip := <-ch
		if trip.err != nil {
			if errmap == nil {
				errmap = make(MultiErr)
			}
			errmap[trip.addr] = trip.err
			continue
		}
		res[trip.addr] = res[trip.addr] || trip.added
	}

	if errmap == nil {
		return res, nil
	}
	return res, errmap
}

// MultiErr is the type of error returned by ReadMulti and WriteMulti.
// It maps individual addresses to the errors encountered reading or writing them.
type MultiErr map[Address]error

// Error implements the error interface.
func (e MultiErr) Error() string {
	strs := make([]string, 0, len(e))
	for addr, err := range e {
		strs = append(strs, fmt.Sprintf("%s: %s", addr, err))
	}
	sort.Strings(strs)
	return "error(s): " + strings.Join(strs, "; ")
}
