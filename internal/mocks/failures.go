// Package mocks - обертки над хранилищами, которые по запросу теста
// возвращают ошибку вместо обращения к хранилищу
package mocks

import "sync"

type failures struct {
	mu   sync.Mutex
	errs map[string]error
}

// FailOn заставляет метод с именем method возвращать err. nil снимает ошибку.
func (f *failures) FailOn(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.errs == nil {
		f.errs = make(map[string]error)
	}
	if err == nil {
		delete(f.errs, method)
		return
	}
	f.errs[method] = err
}

func (f *failures) err(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errs[method]
}
