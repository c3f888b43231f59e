package network

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// srvAnswer builds an SRV answer record for the given question name.
func srvAnswer(qname, target string, port, priority, weight uint16) *dns.SRV {
	return &dns.SRV{
		Hdr:      dns.RR_Header{Name: qname, Rrtype: dns.TypeSRV, Class: dns.ClassINET, Ttl: 300},
		Priority: priority,
		Weight:   weight,
		Port:     port,
		Target:   target,
	}
}

func TestResolveGateways(t *testing.T) {
	r := NewSeedResolver("")
	r.exchange = func(msg *dns.Msg, upstream string) (*dns.Msg, error) {
		assert.Equal(t, defaultUpstream, upstream)
		require.Len(t, msg.Question, 1)
		assert.Equal(t, "_shuttle-gw._tcp.seed.example.", msg.Question[0].Name)

		resp := new(dns.Msg)
		resp.SetReply(msg)
		qname := msg.Question[0].Name
		resp.Answer = []dns.RR{
			srvAnswer(qname, "gw2.seed.example.", 8540, 10, 5),
			srvAnswer(qname, "gw1.seed.example.", 8540, 5, 1),
			srvAnswer(qname, "gw3.seed.example.", 9000, 10, 20),
		}
		return resp, nil
	}

	endpoints, err := r.ResolveGateways("seed.example")
	require.NoError(t, err)

	// Priority ascending, then weight descending.
	assert.Equal(t, []string{
		"http://gw1.seed.example:8540",
		"http://gw3.seed.example:9000",
		"http://gw2.seed.example:8540",
	}, endpoints)
}

func TestResolveGateways_EmptyDomain(t *testing.T) {
	r := NewSeedResolver("")
	_, err := r.ResolveGateways("")
	assert.ErrorIs(t, err, ErrSeedLookupFailed)
}

func TestResolveGateways_NoRecords(t *testing.T) {
	r := NewSeedResolver("1.1.1.1:53")
	r.exchange = func(msg *dns.Msg, upstream string) (*dns.Msg, error) {
		resp := new(dns.Msg)
		resp.SetReply(msg)
		return resp, nil
	}

	_, err := r.ResolveGateways("seed.example")
	assert.ErrorIs(t, err, ErrNoEndpoints)
}

func TestResolveGateways_ServFail(t *testing.T) {
	r := NewSeedResolver("")
	r.exchange = func(msg *dns.Msg, upstream string) (*dns.Msg, error) {
		resp := new(dns.Msg)
		resp.SetReply(msg)
		resp.Rcode = dns.RcodeServerFailure
		return resp, nil
	}

	_, err := r.ResolveGateways("seed.example")
	assert.ErrorIs(t, err, ErrSeedLookupFailed)
}
