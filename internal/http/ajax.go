package http

import (
	"log"
	"net/http"
	"sort"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookgallery/internal/gallery"
)

// ActionLoadMoreBooks is the AJAX action answering the gallery's load-more requests.
const ActionLoadMoreBooks = "load_more_books"

// AjaxDispatcher routes AJAX requests by their "action" parameter.
// Actions are registered explicitly; there is no global hook table.
type AjaxDispatcher struct {
	mu       sync.RWMutex
	handlers map[string]gin.HandlerFunc
}

func NewAjaxDispatcher() *AjaxDispatcher {
	return &AjaxDispatcher{handlers: make(map[string]gin.HandlerFunc)}
}

// Register binds an action name to a handler, replacing any previous one.
// The handler serves anonymous and signed-in callers alike.
func (d *AjaxDispatcher) Register(action string, handler gin.HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[action] = handler
}

// Actions returns the registered action names, sorted.
func (d *AjaxDispatcher) Actions() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	actions := make([]string, 0, len(d.handlers))
	for action := range d.handlers {
		actions = append(actions, action)
	}
	sort.Strings(actions)
	return actions
}

// Handle dispatches a request. The action is read from the form body first,
// then from the query string. Unknown or missing actions get 400 with body "0".
func (d *AjaxDispatcher) Handle(c *gin.Context) {
	action := c.PostForm("action")
	if action == "" {
		action = c.Query("action")
	}

	d.mu.RLock()
	handler, ok := d.handlers[action]
	d.mu.RUnlock()

	if !ok {
		c.Data(http.StatusBadRequest, htmlContentType, []byte("0"))
		return
	}
	handler(c)
}

// LoadMoreBooksHandler answers load_more_books with the concatenated book
// fragments of the requested page. Errors are logged and produce an empty
// body, which the client reads as "no more books".
func LoadMoreBooksHandler(lister Lister) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			log.Printf("[GALLERY] load_more_books: bad form: %v", err)
			c.Data(http.StatusOK, htmlContentType, nil)
			return
		}

		req := gallery.ParsePageRequest(c.Request.Form, lister.PerPage())
		items, err := lister.LoadMore(c.Request.Context(), req)
		if err != nil {
			log.Printf("[GALLERY] load_more_books page=%d per_page=%d category=%q: %v",
				req.Page, req.PerPage, req.Category, err)
			c.Data(http.StatusOK, htmlContentType, nil)
			return
		}

		c.Data(http.StatusOK, htmlContentType, []byte(gallery.JoinItems(items)))
	}
}
