package service

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/meshnetworks/hoproute/src/announce"
	"github.com/meshnetworks/hoproute/src/routing"
)

// Service exposes the routing core over a plain HTTP API, for
// inspection and debugging.
type Service struct {
	sync.Mutex

	bindAddress  string
	routingTable *routing.RoutingTable
	accounts     *announce.Cache
	logger       *logrus.Entry
}

// Stats is the payload of the /stats endpoint.
type Stats struct {
	ReachablePeers int `json:"reachable_peers"`
	CachedAccounts int `json:"cached_accounts"`
}

// NewService ...
func NewService(
	bindAddress string,
	routingTable *routing.RoutingTable,
	accounts *announce.Cache,
	logger *logrus.Entry,
) *Service {
	service := Service{
		bindAddress:  bindAddress,
		routingTable: routingTable,
		accounts:     accounts,
		logger:       logger,
	}

	service.registerHandlers()

	return &service
}

// registerHandlers registers the API handlers with the DefaultServerMux
// of the http package. It is possible that another server in the same
// process is simultaneously using the DefaultServerMux. In which case,
// the handlers will be accessible from both servers.
func (s *Service) registerHandlers() {
	s.logger.Debug("Registering hoproute API handlers")
	http.HandleFunc("/stats", s.makeHandler(s.GetStats))
	http.HandleFunc("/routingtable", s.makeHandler(s.GetRoutingTable))
	http.HandleFunc("/route", s.makeHandler(s.GetRoute))
	http.HandleFunc("/accounts", s.makeHandler(s.GetAccounts))
	http.HandleFunc("/announcements", s.makeHandler(s.GetAnnouncements))
}

func (s *Service) makeHandler(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Lock()
		defer s.Unlock()

		// enable CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")

		fn(w, r)
	}
}

// Serve calls ListenAndServe. This is a blocking call. It is not
// necessary to call Serve when another server has already been started
// with the DefaultServerMux and the same address:port combination.
func (s *Service) Serve() {
	s.logger.WithField("bind_address", s.bindAddress).Debug("Serving hoproute API")

	// Use the DefaultServerMux
	err := http.ListenAndServe(s.bindAddress, nil)
	if err != nil {
		s.logger.Error(err)
	}
}

// GetStats returns high-level counters of the routing core.
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	stats := Stats{
		ReachablePeers: s.routingTable.ReachablePeers(),
		CachedAccounts: len(s.accounts.GetAccountsKeys()),
	}

	s.writeJSON(w, stats)
}

// GetRoutingTable returns the current next-hop snapshot.
func (s *Service) GetRoutingTable(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.routingTable.Info())
}

// GetRoute returns the equal-cost neighbors for the peer given in the
// "peer" query parameter.
func (s *Service) GetRoute(w http.ResponseWriter, r *http.Request) {
	peer := r.URL.Query().Get("peer")
	if peer == "" {
		http.Error(w, "missing peer parameter", http.StatusBadRequest)
		return
	}

	hops := s.routingTable.ViewRoute(routing.PeerID(peer))
	if hops == nil {
		http.Error(w, "peer unreachable", http.StatusNotFound)
		return
	}

	s.writeJSON(w, hops)
}

// GetAccounts returns the account ids currently in the announcement
// cache.
func (s *Service) GetAccounts(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.accounts.GetAccountsKeys())
}

// GetAnnouncements returns the announcements currently in the
// announcement cache.
func (s *Service) GetAnnouncements(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.accounts.GetAnnouncements())
}

func (s *Service) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Encoding API response")
	}
}
