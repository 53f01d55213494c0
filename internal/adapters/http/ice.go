package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pion/webrtc/v4"
)

// handleICEServers hands clients the STUN/TURN catalogue for their
// RTCPeerConnection. The negotiation itself stays in the browsers;
// this server only relays the resulting signaling blobs.
func (d *Deps) handleICEServers(c *gin.Context) {
	servers := make([]webrtc.ICEServer, 0, 2)
	if len(d.Cfg.StunURLs) > 0 {
		servers = append(servers, webrtc.ICEServer{URLs: d.Cfg.StunURLs})
	}
	if d.Cfg.TurnURL != "" {
		servers = append(servers, webrtc.ICEServer{
			URLs:           []string{d.Cfg.TurnURL},
			Username:       d.Cfg.TurnUsername,
			Credential:     d.Cfg.TurnCredential,
			CredentialType: webrtc.ICECredentialTypePassword,
		})
	}
	c.JSON(http.StatusOK, gin.H{"iceServers": servers})
}
