package locks

import "sync"

// Keyed — набор мьютексов по строковому ключу. Сериализует мутации
// по конкретному ресурсу (комната, услуга), оставляя чтения свободными.
// Ключи не вычищаются: их количество ограничено каталогом.
type Keyed struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func NewKeyed() *Keyed {
	return &Keyed{m: make(map[string]*sync.Mutex)}
}

// Get возвращает мьютекс для ключа, создавая его при первом обращении.
func (k *Keyed) Get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	if l, ok := k.m[key]; ok {
		return l
	}
	l := &sync.Mutex{}
	k.m[key] = l
	return l
}
