package models

// Origin — откуда получены статьи.
type Origin string

const (
	// OriginNetwork — свежие данные из удалённого источника.
	OriginNetwork Origin = "network"
	// OriginCache — данные из локального хранилища (офлайн-фолбэк).
	OriginCache Origin = "cache"
)

// FetchResult — размеченный результат загрузки: Fresh или Stale.
// Articles совпадают с тем, что вернул бы простой вызов FetchArticles.
type FetchResult struct {
	Articles     []Article
	Origin       Origin
	TotalResults int
	// Reason — причина фолбэка; nil для свежих данных.
	Reason error
}

// Stale сообщает, что данные взяты из кэша.
func (r FetchResult) Stale() bool {
	return r.Origin == OriginCache
}
