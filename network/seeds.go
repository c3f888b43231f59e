package network

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const (
	// seedService is the SRV service label gateways publish under,
	// i.e. _shuttle-gw._tcp.{seed domain}.
	seedService = "shuttle-gw"

	// defaultUpstream is the default recursive resolver for seed queries.
	defaultUpstream = "8.8.8.8:53"

	// seedTimeout is the timeout for a seed DNS query.
	seedTimeout = 10 * time.Second

	// edns0BufSize is the EDNS0 UDP buffer size.
	edns0BufSize = 4096
)

// SeedResolver discovers gateway endpoints from DNS SRV records published
// under a seed domain. This is how an operator bootstraps without a
// configured gateway URL.
type SeedResolver struct {
	// Upstream is the recursive resolver address (e.g. "8.8.8.8:53").
	// Empty means the default.
	Upstream string

	// exchange performs the DNS exchange; tests override it.
	exchange func(msg *dns.Msg, upstream string) (*dns.Msg, error)
}

// NewSeedResolver creates a SeedResolver using the given recursive resolver.
func NewSeedResolver(upstream string) *SeedResolver {
	if upstream == "" {
		upstream = defaultUpstream
	}
	return &SeedResolver{Upstream: upstream}
}

// ResolveGateways looks up _shuttle-gw._tcp.{domain} SRV records and returns
// gateway base URLs ordered by priority (ascending) then weight (descending).
func (r *SeedResolver) ResolveGateways(domain string) ([]string, error) {
	if domain == "" {
		return nil, fmt.Errorf("%w: empty seed domain", ErrSeedLookupFailed)
	}

	qname := dns.Fqdn(fmt.Sprintf("_%s._tcp.%s", seedService, domain))

	msg := new(dns.Msg)
	msg.SetQuestion(qname, dns.TypeSRV)
	msg.RecursionDesired = true
	msg.SetEdns0(edns0BufSize, false)

	resp, err := r.doExchange(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", ErrSeedLookupFailed, qname, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%w: query %s: rcode %s",
			ErrSeedLookupFailed, qname, dns.RcodeToString[resp.Rcode])
	}

	var srvs []*dns.SRV
	for _, rr := range resp.Answer {
		if srv, ok := rr.(*dns.SRV); ok {
			srvs = append(srvs, srv)
		}
	}
	if len(srvs) == 0 {
		return nil, fmt.Errorf("%w: no SRV records for %s", ErrNoEndpoints, qname)
	}

	sort.Slice(srvs, func(i, j int) bool {
		if srvs[i].Priority != srvs[j].Priority {
			return srvs[i].Priority < srvs[j].Priority
		}
		return srvs[i].Weight > srvs[j].Weight
	})

	endpoints := make([]string, 0, len(srvs))
	for _, srv := range srvs {
		host := strings.TrimSuffix(srv.Target, ".")
		endpoints = append(endpoints, fmt.Sprintf("http://%s:%d", host, srv.Port))
	}

	return endpoints, nil
}

func (r *SeedResolver) doExchange(msg *dns.Msg) (*dns.Msg, error) {
	if r.exchange != nil {
		return r.exchange(msg, r.Upstream)
	}
	client := &dns.Client{Timeout: seedTimeout}
	resp, _, err := client.Exchange(msg, r.Upstream)
	return resp, err
}
