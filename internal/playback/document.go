package playback

import "math"

// Пределы масштабирования страницы документа.
const (
	minZoom = 1.0
	maxZoom = 4.0
	// springBackThreshold — масштаб, ниже которого отпущенный пинч
	// пружинит обратно ровно к 1 со сбросом смещения.
	springBackThreshold = 1.1
	// doubleTapZoom — масштаб, в который двойное касание увеличивает страницу.
	doubleTapZoom = 2.25
)

// ZoomState — локальное состояние масштабирования одной страницы.
type ZoomState struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

// PageURLBuilder строит адрес страницы документа; загрузка по адресу
// требует bearer-токен в заголовке.
type PageURLBuilder interface {
	DocumentPageURL(id string, page int) string
}

// PageURLs синтезирует по одному адресу на каждую страницу документа,
// в порядке 1..pageCount.
func PageURLs(b PageURLBuilder, id string, pageCount int) []string {
	urls := make([]string, 0, pageCount)
	for page := 1; page <= pageCount; page++ {
		urls = append(urls, b.DocumentPageURL(id, page))
	}
	return urls
}

// DocumentController управляет состоянием просмотра одного документа:
// горизонтальная постраничная прокрутка плюс масштабирование текущей
// страницы. Состояние зума локально для страницы и сбрасывается при
// смене индекса.
type DocumentController struct {
	pages         []string
	page          int
	viewportWidth float64
	zoom          ZoomState
}

// NewDocumentController создаёт контроллер для готового списка страниц.
func NewDocumentController(pages []string, viewportWidth float64) *DocumentController {
	return &DocumentController{
		pages:         pages,
		viewportWidth: viewportWidth,
		zoom:          ZoomState{Scale: minZoom},
	}
}

// Pages возвращает список адресов страниц.
func (c *DocumentController) Pages() []string {
	return c.pages
}

// Page возвращает индекс текущей страницы (с нуля).
func (c *DocumentController) Page() int {
	return c.page
}

// Zoom возвращает состояние масштабирования текущей страницы.
func (c *DocumentController) Zoom() ZoomState {
	return c.zoom
}

// SetScrollOffset обновляет текущую страницу округлением смещения
// прокрутки к ширине вьюпорта.
func (c *DocumentController) SetScrollOffset(offset float64) {
	if c.viewportWidth <= 0 || len(c.pages) == 0 {
		return
	}
	page := int(math.Round(offset / c.viewportWidth))
	if page < 0 {
		page = 0
	}
	if page > len(c.pages)-1 {
		page = len(c.pages) - 1
	}
	if page != c.page {
		c.page = page
		c.resetZoom()
	}
}

// Pinch применяет масштаб щипка, зажимая его в [1, 4].
func (c *DocumentController) Pinch(scale float64) {
	if scale < minZoom {
		scale = minZoom
	}
	if scale > maxZoom {
		scale = maxZoom
	}
	c.zoom.Scale = scale
}

// ReleasePinch завершает жест: масштаб ниже порога пружинит обратно
// ровно к 1 со сбросом смещения в (0,0).
func (c *DocumentController) ReleasePinch() {
	if c.zoom.Scale < springBackThreshold {
		c.resetZoom()
	}
}

// DoubleTap переключает масштаб между 1 и фиксированным увеличением.
func (c *DocumentController) DoubleTap() {
	if c.zoom.Scale > minZoom {
		c.resetZoom()
		return
	}
	c.zoom.Scale = doubleTapZoom
}

// Pan смещает увеличенную страницу; без увеличения жест игнорируется.
func (c *DocumentController) Pan(dx, dy float64) {
	if c.zoom.Scale <= minZoom {
		return
	}
	c.zoom.TranslateX += dx
	c.zoom.TranslateY += dy
}

func (c *DocumentController) resetZoom() {
	c.zoom = ZoomState{Scale: minZoom}
}
